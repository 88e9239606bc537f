package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// GradesByGrade returns a stacked timeseries panel of grade results per
// second, split by grade.
func GradesByGrade() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Grades").
		Description("Grade results per second by grade").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(SumRateBy("dg_grades_total", "grade"), "{{grade}}", "A")).
		Unit("ops").
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// GradesBySource returns a timeseries panel showing which pricing path
// produced each result.
func GradesBySource() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Result Source").
		Description("Grade results per second by source (local table, remote, manual, legacy heuristic)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(SumRateBy("dg_grades_total", "source"), "{{source}}", "A")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// GateOutcomes returns a bar gauge panel of gate matches in the last hour.
func GateOutcomes() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Gate Outcomes (1h)").
		Description("Security, defect and review gates matched in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			"sum by (reason) (" + Increase("dg_gate_outcomes_total", "1h") + ")",
			"{{reason}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// InsufficientDataRate returns a stat panel showing the share of results
// without a usable base price.
func InsufficientDataRate() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Insufficient Data %").
		Description("Share of results with no base price in the local table or remote tiers").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`dg:insufficient_data:rate5m / dg:grades:rate5m * 100`, "", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(5, 20)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// ManualOverrides returns a stat panel counting manual price overrides in
// the last 24 hours.
func ManualOverrides() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Manual Prices (24h)").
		Description("Final prices pinned by an auditor").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(Increase("dg_manual_price_overrides_total", "24h"), "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// FinalPriceDistribution returns a bar gauge panel showing the
// distribution of final prices across histogram buckets.
func FinalPriceDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Final Price Distribution").
		Description("Computed final prices over the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(
			"sum(" + Increase("dg_final_price_bucket", "1h") + ") by (le)",
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
