// Package engine runs audit sessions: it owns the price resolution state
// machine, reconciles local pricing with the remote valuation service and
// hands finished audits to the store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/donaldgifford/device-grader/internal/metrics"
	"github.com/donaldgifford/device-grader/internal/store"
	"github.com/donaldgifford/device-grader/internal/valuation"
	"github.com/donaldgifford/device-grader/pkg/pricing"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInsufficientData is returned when no price can be computed; the
	// audit cannot be submitted until a base price is available.
	ErrInsufficientData = errors.New("insufficient data to price device")

	// ErrNoDeviceID is returned when submitting a session without a device id.
	ErrNoDeviceID = errors.New("session has no device id")

	// ErrInvalidPrice is returned for a negative or non-finite manual price.
	ErrInvalidPrice = errors.New("invalid manual price")

	// ErrNoStore is returned when persistence is requested without a store.
	ErrNoStore = errors.New("no store configured")
)

const (
	defaultDebounce      = 400 * time.Millisecond
	defaultRemoteTimeout = 5 * time.Second
)

// Engine builds audit sessions and evaluates one-off inspections. It holds
// only read-only configuration; all per-audit state lives in Session.
type Engine struct {
	store    store.Store
	catalog  valuation.Catalog
	resolver *pricing.Resolver
	source   valuation.Source
	tenant   string
	log      *slog.Logger
	debug    bool

	debounce      time.Duration
	remoteTimeout time.Duration
	nowFunc       func() time.Time

	evaluations metric.Int64Counter
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithDebug logs every session recomputation at debug level.
func WithDebug(debug bool) EngineOption {
	return func(e *Engine) {
		e.debug = debug
	}
}

// WithResolver replaces the default price resolver.
func WithResolver(r *pricing.Resolver) EngineOption {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithValuation enables remote valuation through source for tenant.
func WithValuation(source valuation.Source, tenant string) EngineOption {
	return func(e *Engine) {
		e.source = source
		e.tenant = tenant
	}
}

// WithDebounce sets how long a session waits for input to settle before
// requesting a remote valuation.
func WithDebounce(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.debounce = d
	}
}

// WithRemoteTimeout bounds each remote valuation call.
func WithRemoteTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.remoteTimeout = d
	}
}

// WithCatalog sets the catalog used for name-based identity resolution.
// It defaults to the store.
func WithCatalog(c valuation.Catalog) EngineOption {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// NewEngine creates an Engine. s may be nil, in which case price tables
// must be supplied inline and sessions cannot be submitted.
func NewEngine(s store.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store:         s,
		resolver:      pricing.NewResolver(),
		log:           slog.Default(),
		debounce:      defaultDebounce,
		remoteTimeout: defaultRemoteTimeout,
		nowFunc:       time.Now,
	}
	if s != nil {
		e.catalog = s
	}
	for _, opt := range opts {
		opt(e)
	}

	counter, err := otel.Meter("device-grader/engine").Int64Counter(
		"grader.evaluations",
		metric.WithDescription("Evaluations by grade and source."),
	)
	if err != nil {
		e.log.Warn("creating evaluation counter", "error", err)
	}
	e.evaluations = counter
	return e
}

// Resolver returns the price resolver in use.
func (e *Engine) Resolver() *pricing.Resolver {
	return e.resolver
}

// NewSession resolves the device identity, loads its price table and
// opens a session in the uninitialized state.
func (e *Engine) NewSession(
	ctx context.Context,
	identity domain.DeviceIdentity,
	channel domain.Channel,
) (*Session, error) {
	if channel == "" {
		channel = domain.ChannelB2C
	}

	identity = e.resolveIdentity(ctx, identity)

	prices, err := e.loadPrices(ctx, identity, channel)
	if err != nil {
		return nil, err
	}

	return newSession(e, uuid.NewString(), identity, channel, prices), nil
}

// Restore reopens a session for a persisted audit record. A record whose
// price was set by hand comes back overridden, so the human decision is
// not silently recomputed.
func (e *Engine) Restore(
	ctx context.Context,
	rec *domain.AuditRecord,
	identity domain.DeviceIdentity,
	channel domain.Channel,
) (*Session, error) {
	if identity.DeviceID == nil {
		id := rec.DeviceID
		identity.DeviceID = &id
	}

	s, err := e.NewSession(ctx, identity, channel)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prices == nil && len(rec.PrecioPorEstado) > 0 {
		s.prices = &domain.PriceTable{Prices: rec.PrecioPorEstado}
	}
	s.observations = rec.Observaciones

	if rec.EditadoPorUsuario && rec.PrecioFinal != nil {
		price := *rec.PrecioFinal
		s.pin(price, domain.GradeResult{
			Grade:       rec.Grade,
			LegacyGrade: rec.EstadoValoracion,
			Source:      domain.SourceManual,
			FinalPrice:  &price,
		})
		s.refresh()
	}
	return s, nil
}

// EvaluateRequest is a stateless, one-shot evaluation.
type EvaluateRequest struct {
	Identity   domain.DeviceIdentity
	Channel    domain.Channel
	Inspection domain.CanonicalInspection
	Override   domain.DeductionOverride

	// Prices replaces the stored price table when set.
	Prices *domain.PriceTable
}

// Evaluate grades and prices one inspection. The remote valuation is
// consulted synchronously, bounded by the remote timeout; any failure falls
// back to local pricing.
func (e *Engine) Evaluate(ctx context.Context, req EvaluateRequest) (domain.GradeResult, error) {
	ctx, span := otel.Tracer("device-grader/engine").Start(ctx, "engine.Evaluate")
	defer span.End()

	channel := req.Channel
	if channel == "" {
		channel = domain.ChannelB2C
	}
	identity := e.resolveIdentity(ctx, req.Identity)

	prices := req.Prices
	if prices == nil {
		var err error
		prices, err = e.loadPrices(ctx, identity, channel)
		if err != nil {
			return domain.GradeResult{}, err
		}
	}

	res := e.resolver.Resolve(pricing.Input{
		Inspection: &req.Inspection,
		Prices:     prices,
		Override:   req.Override,
		Remote:     e.fetchRemote(ctx, channel, identity, &req.Inspection),
	})
	e.observe(res)
	if e.evaluations != nil {
		e.evaluations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("grade", string(res.Grade)),
			attribute.String("source", string(res.Source)),
		))
	}

	span.SetAttributes(
		attribute.String("grade", string(res.Grade)),
		attribute.String("source", string(res.Source)),
		attribute.Bool("insufficient_data", res.InsufficientData),
	)
	return res, nil
}

// Submit persists the session's audit record.
func (e *Engine) Submit(ctx context.Context, s *Session) (*domain.AuditRecord, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}

	rec, err := s.Record()
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			metrics.InsufficientDataTotal.Inc()
		}
		return nil, err
	}

	if err := e.store.SaveAuditRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving audit record for device %d: %w", rec.DeviceID, err)
	}

	res := s.Result()
	res.Grade = rec.Grade
	res.FinalPrice = rec.PrecioFinal
	if rec.EditadoPorUsuario {
		res.Source = domain.SourceManual
	}
	e.observe(res)

	e.log.Info("audit submitted",
		"session", s.ID(),
		"device_id", rec.DeviceID,
		"grade", rec.Grade,
		"estado_valoracion", rec.EstadoValoracion,
		"precio_final", *rec.PrecioFinal,
		"editado_por_usuario", rec.EditadoPorUsuario,
	)
	return rec, nil
}

func (e *Engine) fetchRemote(
	ctx context.Context,
	channel domain.Channel,
	identity domain.DeviceIdentity,
	c *domain.CanonicalInspection,
) *pricing.Remote {
	if e.source == nil {
		return nil
	}

	req, err := valuation.BuildRequest(e.tenant, channel, identity, c)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	resp, err := e.source.Valuate(ctx, req)
	if err != nil {
		e.log.Warn("remote valuation failed, using local pricing", "key", req.Key(), "error", err)
		return nil
	}
	return resp.Remote()
}

// resolveIdentity fills in catalog ids. Lookup failures are logged and the
// identity is used as given.
func (e *Engine) resolveIdentity(ctx context.Context, id domain.DeviceIdentity) domain.DeviceIdentity {
	resolved, err := valuation.ResolveIdentity(ctx, e.catalog, id)
	if err != nil && !errors.Is(err, valuation.ErrNoIdentity) {
		e.log.Warn("resolving device identity", "model_name", id.ModelName, "error", err)
	}
	return resolved
}

// loadPrices fetches the price table for identity. A missing table is not
// an error: the resolver reports insufficient data instead.
func (e *Engine) loadPrices(
	ctx context.Context,
	identity domain.DeviceIdentity,
	channel domain.Channel,
) (*domain.PriceTable, error) {
	if e.store == nil || identity.ModelID == nil || identity.CapacityID == nil {
		return nil, nil
	}

	pt, err := e.store.GetPriceTable(ctx, *identity.ModelID, *identity.CapacityID, channel)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading price table: %w", err)
	}
	return pt, nil
}

func (e *Engine) observe(res domain.GradeResult) {
	metrics.GradesTotal.WithLabelValues(string(res.Grade), string(res.Source)).Inc()

	if res.Reason != "" {
		metrics.GateOutcomesTotal.WithLabelValues(res.Reason).Inc()
	}
	if res.InsufficientData {
		metrics.InsufficientDataTotal.Inc()
	}
	if res.FinalPrice != nil {
		metrics.FinalPrice.Observe(*res.FinalPrice)
	}
}
