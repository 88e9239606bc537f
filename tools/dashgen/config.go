package main

import "errors"

// KnownMetrics is the set of metric names exported by device-grader plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"dg_http_request_duration_seconds": true,
	"dg_http_requests_total":           true,
	"dg_http_panics_total":             true,

	// Health metrics.
	"dg_healthz_up": true,
	"dg_readyz_up":  true,

	// Grading metrics.
	"dg_grades_total":                 true,
	"dg_gate_outcomes_total":          true,
	"dg_final_price":                  true,
	"dg_insufficient_data_total":      true,
	"dg_manual_price_overrides_total": true,

	// Valuation metrics.
	"dg_valuation_requests_total":     true,
	"dg_valuation_duration_seconds":   true,
	"dg_valuation_cache_hits_total":   true,
	"dg_valuation_cache_misses_total": true,
	"dg_valuation_superseded_total":   true,
	"dg_valuation_breaker_state":      true,

	// Session metrics.
	"dg_active_sessions":       true,
	"dg_sessions_reaped_total": true,

	// Recording rules.
	"dg:http_requests:rate5m":      true,
	"dg:http_errors:rate5m":        true,
	"dg:grades:rate5m":             true,
	"dg:insufficient_data:rate5m":  true,
	"dg:valuation_requests:rate5m": true,
	"dg:valuation_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
