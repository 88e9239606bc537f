package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ValuationRequests returns a timeseries panel of remote valuation calls
// by outcome.
func ValuationRequests() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Valuation Requests").
		Description("Remote valuation calls per second by outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			SumRateBy("dg_valuation_requests_total", "outcome"),
			"{{outcome}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ValuationLatency returns a timeseries panel of remote valuation latency
// percentiles.
func ValuationLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Valuation Latency").
		Description("Remote valuation call duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			Quantile(0.50, "dg_valuation_duration_seconds"),
			"p50", "A",
		)).
		WithTarget(PromQuery(
			Quantile(0.95, "dg_valuation_duration_seconds"),
			"p95", "B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CacheHitRatio returns a stat panel of the valuation cache hit ratio.
func CacheHitRatio() *stat.PanelBuilder {
	hits := SumRate("dg_valuation_cache_hits_total")
	misses := SumRate("dg_valuation_cache_misses_total")
	return stat.NewPanelBuilder().
		Title("Cache Hit %").
		Description("Valuation responses served from cache").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(hits+` / (`+hits+` + `+misses+`) * 100`, "", "A")).
		Unit("percent").
		Thresholds(ThresholdsRedGreen(50)).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// BreakerState returns a stat panel of the valuation circuit breaker.
func BreakerState() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Breaker").
		Description("Valuation circuit breaker (0 closed, 1 half-open, 2 open)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(Aggregate("max", "dg_valuation_breaker_state"), "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 2)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// Superseded returns a timeseries panel of remote responses discarded
// because the inspection changed while they were in flight.
func Superseded() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Superseded Responses").
		Description("Remote responses dropped because newer inputs were pending").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(Rate("dg_valuation_superseded_total"), "superseded/s", "A")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SessionsReaped returns a timeseries panel of idle sessions closed by the
// reaper.
func SessionsReaped() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Sessions Reaped").
		Description("Idle audit sessions closed by the reaper").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(Increase("dg_sessions_reaped_total", "5m"), "reaped", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
