package valuation

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/donaldgifford/device-grader/internal/metrics"
)

// BreakerSettings tunes the circuit breaker around the valuation service.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	Interval            time.Duration
	Timeout             time.Duration
}

// DefaultBreakerSettings trips after three consecutive failures and probes
// again after thirty seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
	}
}

// NewBreaker builds the breaker guarding remote valuation calls.
func NewBreaker(name string, s BreakerSettings, logger *slog.Logger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = DefaultBreakerSettings().ConsecutiveFailures
	}

	st := gobreaker.Settings{
		Name:     name,
		Interval: s.Interval,
		Timeout:  s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= s.ConsecutiveFailures {
				return true
			}
			if counts.Requests < 20 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.ValuationBreakerState.Set(breakerStateValue(to))
			logger.Warn("valuation breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return gobreaker.NewCircuitBreaker(st)
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
