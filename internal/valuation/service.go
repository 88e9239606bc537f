package valuation

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/donaldgifford/device-grader/internal/metrics"
)

// Service fronts a Source with a response cache.
type Service struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithCache sets the response cache and entry ttl.
func WithCache(c Cache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a Service that valuates through source.
func NewService(source Source, opts ...ServiceOption) *Service {
	s := &Service{
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Valuate implements Source. Cache failures are logged and bypassed.
func (s *Service) Valuate(ctx context.Context, req Request) (*Response, error) {
	key := req.Key()

	if s.cache != nil {
		if b, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("valuation cache get failed", "key", key, "error", err)
		} else if ok {
			var resp Response
			if err := json.Unmarshal(b, &resp); err == nil {
				metrics.ValuationCacheHitsTotal.Inc()
				return &resp, nil
			}
			s.logger.Warn("discarding undecodable cache entry", "key", key)
		}
		metrics.ValuationCacheMissesTotal.Inc()
	}

	resp, err := s.source.Valuate(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
				s.logger.Warn("valuation cache set failed", "key", key, "error", err)
			}
		}
	}
	return resp, nil
}
