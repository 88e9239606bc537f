package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/device-grader/internal/metrics"
)

const defaultPath = "/valuation"

// Client calls the remote valuation service over HTTP.
type Client struct {
	baseURL     string
	path        string
	client      *http.Client
	rateLimiter *RateLimiter
	breaker     *gobreaker.CircuitBreaker
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithPath overrides the valuation endpoint path.
func WithPath(p string) ClientOption {
	return func(c *Client) {
		c.path = p
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter routes every call through r.
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithBreaker wraps every call in the circuit breaker b.
func WithBreaker(b *gobreaker.CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = b
	}
}

// NewClient creates a valuation client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		path:    defaultPath,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Valuate requests a valuation for req.
func (c *Client) Valuate(ctx context.Context, req Request) (*Response, error) {
	ctx, span := otel.Tracer("device-grader/valuation").Start(ctx, "valuation.Valuate")
	defer span.End()
	span.SetAttributes(
		attribute.String("valuation.channel", string(req.Channel)),
		attribute.String("valuation.key", req.Key()),
	)

	resp, err := c.valuate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ValuationRequestsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	metrics.ValuationRequestsTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.String("valuation.gate", resp.Gate))
	return resp, nil
}

func (c *Client) valuate(ctx context.Context, req Request) (*Response, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	if c.breaker == nil {
		return c.do(ctx, req)
	}

	out, err := c.breaker.Execute(func() (any, error) {
		return c.do(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*Response), nil
}

func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	defer func() {
		metrics.ValuationDuration.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling valuation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing valuation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("valuation API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("parsing valuation response: %w", err)
	}
	if err := checkShape(respBody); err != nil {
		return nil, err
	}
	return &out, nil
}

// checkShape rejects bodies that decode cleanly but are missing the fields
// every valuation carries.
func checkShape(body []byte) error {
	var required struct {
		Gate  *string  `json:"gate"`
		Offer *float64 `json:"oferta"`
	}
	if err := json.Unmarshal(body, &required); err != nil {
		return fmt.Errorf("parsing valuation response: %w", err)
	}
	if required.Gate == nil || strings.TrimSpace(*required.Gate) == "" || required.Offer == nil {
		return ErrMalformedResponse
	}
	return nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
