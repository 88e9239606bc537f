package engine

import (
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/donaldgifford/device-grader/internal/metrics"
	"github.com/donaldgifford/device-grader/internal/valuation"
	"github.com/donaldgifford/device-grader/pkg/pricing"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// State is the position of a session in the price resolution lifecycle.
type State string

// Session states.
const (
	StateUninitialized  State = "uninitialized"
	StateAwaitingRemote State = "awaiting_remote"
	StateResolvedLocal  State = "resolved_local"
	StateResolvedRemote State = "resolved_remote"
	StateOverridden     State = "overridden"
)

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID           string                      `json:"id"`
	State        State                       `json:"state"`
	Identity     domain.DeviceIdentity       `json:"identity"`
	Channel      domain.Channel              `json:"channel"`
	Inspection   *domain.CanonicalInspection `json:"inspection,omitempty"`
	Override     domain.DeductionOverride    `json:"override"`
	ManualPrice  *float64                    `json:"manual_price,omitempty"`
	Observations string                      `json:"observations,omitempty"`
	Result       domain.GradeResult          `json:"result"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// Session is one audit in progress. All methods are safe for concurrent
// use; the remote valuation completes on its own goroutine and is folded
// in under the session lock.
type Session struct {
	id     string
	engine *Engine

	mu           sync.Mutex
	identity     domain.DeviceIdentity
	channel      domain.Channel
	inspection   *domain.CanonicalInspection
	prices       *domain.PriceTable
	override     domain.DeductionOverride
	observations string

	state    State
	shown    domain.GradeResult
	hasShown bool

	// Remote valuation bookkeeping, all keyed by valuation.Request.Key.
	remote     *pricing.Remote
	remoteKey  string
	pendingKey string
	failedKey  string
	debouncer  *valuation.Debouncer

	manualPrice *float64
	pinned      domain.GradeResult

	touched time.Time
	closed  bool
}

func newSession(
	e *Engine,
	id string,
	identity domain.DeviceIdentity,
	channel domain.Channel,
	prices *domain.PriceTable,
) *Session {
	s := &Session{
		id:       id,
		engine:   e,
		identity: identity,
		channel:  channel,
		prices:   prices,
		state:    StateUninitialized,
		touched:  e.nowFunc(),
	}
	if e.source != nil {
		s.debouncer = valuation.NewDebouncer(e.source, e.debounce, e.remoteTimeout)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastTouched returns when the session was last read or changed.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = s.engine.nowFunc()
}

// Update replaces the inspection and recomputes the result.
func (s *Session) Update(c domain.CanonicalInspection) domain.GradeResult {
	c.FunctionalChecks = slices.Clone(c.FunctionalChecks)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inspection = &c
	s.refresh()
	return s.shown
}

// SetOverride replaces the deduction overrides and recomputes. Passing the
// zero value restores every automatic deduction.
func (s *Session) SetOverride(o domain.DeductionOverride) domain.GradeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.override = o
	s.refresh()
	return s.shown
}

// SetManualPrice pins the final price. The result stays frozen until Reset,
// except that a failed security check still forces the price to zero.
func (s *Session) SetManualPrice(price float64) (domain.GradeResult, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return domain.GradeResult{}, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var pinned domain.GradeResult
	if s.inspection != nil {
		pinned = s.compute(s.currentRemote())
	}
	pinned.Source = domain.SourceManual
	pinned.FinalPrice = &price
	pinned.Stale = false
	pinned.NeedsReview = false
	pinned.InsufficientData = false

	s.pin(price, pinned)
	metrics.ManualPriceOverridesTotal.Inc()
	s.refresh()
	return s.shown, nil
}

func (s *Session) pin(price float64, result domain.GradeResult) {
	s.manualPrice = &price
	s.pinned = result
}

// Reset drops the manual price and every deduction override, and allows a
// previously failed remote valuation to be retried.
func (s *Session) Reset() domain.GradeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manualPrice = nil
	s.pinned = domain.GradeResult{}
	s.override = domain.DeductionOverride{}
	s.failedKey = ""
	s.hasShown = false
	s.refresh()
	return s.shown
}

// SetObservations records the auditor's free-text notes.
func (s *Session) SetObservations(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations = text
	s.touched = s.engine.nowFunc()
}

// Result returns the result currently shown. While a newer remote valuation
// is pending this is the previous result with Stale set.
func (s *Session) Result() domain.GradeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

// Snapshot returns a copy of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:           s.id,
		State:        s.state,
		Identity:     s.identity,
		Channel:      s.channel,
		Override:     s.override,
		Observations: s.observations,
		Result:       s.shown,
		UpdatedAt:    s.touched,
	}
	if s.inspection != nil {
		c := *s.inspection
		snap.Inspection = &c
	}
	if s.manualPrice != nil {
		p := *s.manualPrice
		snap.ManualPrice = &p
	}
	return snap
}

// Record builds the audit record for submission. It never waits for a
// pending remote valuation: the current inputs are priced with whatever
// remote data already matches them.
func (s *Session) Record() (*domain.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity.DeviceID == nil {
		return nil, ErrNoDeviceID
	}

	var (
		res    domain.GradeResult
		edited bool
	)
	switch {
	case s.inspection != nil && !s.inspection.SecurityOK:
		res = s.compute(nil)
	case s.manualPrice != nil:
		res = s.pinned
		edited = true
	case s.inspection == nil:
		return nil, ErrInsufficientData
	default:
		res = s.compute(s.currentRemote())
	}

	if res.FinalPrice == nil {
		return nil, ErrInsufficientData
	}
	price := *res.FinalPrice

	return &domain.AuditRecord{
		DeviceID:          *s.identity.DeviceID,
		EstadoValoracion:  res.LegacyGrade,
		Grade:             res.Grade,
		PrecioFinal:       &price,
		PrecioPorEstado:   s.priceSnapshot(),
		Observaciones:     s.observations,
		EditadoPorUsuario: edited,
	}, nil
}

// priceSnapshot copies the local price table, or the remote tier prices
// when no local table exists.
func (s *Session) priceSnapshot() map[string]float64 {
	switch {
	case s.prices != nil && len(s.prices.Prices) > 0:
		return maps.Clone(s.prices.Prices)
	case s.remote != nil:
		return maps.Clone(s.remote.TierPrices)
	default:
		return map[string]float64{}
	}
}

// Close stops any pending remote valuation. A closed session no longer
// accepts remote results.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.pendingKey = ""
	if s.debouncer != nil {
		s.debouncer.Stop()
	}
}

func (s *Session) compute(remote *pricing.Remote) domain.GradeResult {
	return s.engine.resolver.Resolve(pricing.Input{
		Inspection: s.inspection,
		Prices:     s.prices,
		Override:   s.override,
		Remote:     remote,
	})
}

// request builds the outbound valuation request for the current inputs.
func (s *Session) request() (valuation.Request, bool) {
	if s.debouncer == nil || s.closed || s.inspection == nil {
		return valuation.Request{}, false
	}
	req, err := valuation.BuildRequest(s.engine.tenant, s.channel, s.identity, s.inspection)
	if err != nil {
		return valuation.Request{}, false
	}
	return req, true
}

// currentRemote returns the remote valuation only if it was computed for
// exactly the current inputs.
func (s *Session) currentRemote() *pricing.Remote {
	req, ok := s.request()
	if !ok || s.remote == nil || req.Key() != s.remoteKey {
		return nil
	}
	return s.remote
}

// refresh moves the state machine forward after any change. Callers hold mu.
func (s *Session) refresh() {
	s.touched = s.engine.nowFunc()

	switch {
	case s.inspection == nil && s.manualPrice == nil:
		s.state = StateUninitialized
		s.shown = domain.GradeResult{}
		s.hasShown = false
		return
	case s.inspection != nil && !s.inspection.SecurityOK:
		s.pendingKey = ""
		s.show(StateResolvedLocal, s.compute(nil))
		return
	case s.manualPrice != nil:
		s.show(StateOverridden, s.pinned)
		return
	}

	var remote *pricing.Remote
	if req, ok := s.request(); ok {
		key := req.Key()
		switch key {
		case s.remoteKey:
			remote = s.remote
			s.pendingKey = ""
		case s.pendingKey:
		case s.failedKey:
			s.pendingKey = ""
		default:
			s.pendingKey = key
			s.debouncer.Schedule(req, s.deliver)
		}
	} else {
		s.pendingKey = ""
	}

	res := s.compute(remote)
	if s.pendingKey != "" {
		if s.hasShown && s.shown.Grade != domain.GradeR && s.shown.Source != domain.SourceManual {
			res = s.shown
		}
		res.Stale = true
		s.show(StateAwaitingRemote, res)
		return
	}

	if remote != nil {
		s.show(StateResolvedRemote, res)
	} else {
		s.show(StateResolvedLocal, res)
	}
}

func (s *Session) show(state State, res domain.GradeResult) {
	s.state = state
	s.shown = res
	s.hasShown = true

	if s.engine.debug {
		s.engine.log.Debug("session recomputed",
			"session", s.id,
			"state", state,
			"pending", s.pendingKey,
			"grade", res.Grade,
			"legacy_grade", res.LegacyGrade,
			"source", res.Source,
			"final_price", res.FinalPrice,
			"stale", res.Stale,
		)
	}
}

// deliver folds a finished remote valuation into the session. Results for
// superseded inputs are discarded.
func (s *Session) deliver(r valuation.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || r.Key != s.pendingKey {
		metrics.ValuationSupersededTotal.Inc()
		s.engine.log.Debug("discarding superseded valuation", "session", s.id, "key", r.Key)
		return
	}
	s.pendingKey = ""

	remote := r.Response.Remote()
	switch {
	case r.Err != nil:
		s.failedKey = r.Key
		s.engine.log.Warn("remote valuation failed, using local pricing",
			"session", s.id,
			"key", r.Key,
			"error", r.Err,
		)
	case remote == nil:
		s.failedKey = r.Key
		s.engine.log.Warn("remote valuation returned no data", "session", s.id, "key", r.Key)
	default:
		s.remote = remote
		s.remoteKey = r.Key
	}

	s.refresh()
}
