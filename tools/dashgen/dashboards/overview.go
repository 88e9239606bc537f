// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/device-grader/tools/dashgen/panels"
)

// BuildOverview constructs the device-grader overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Device Grader Overview").
		Uid("dg-overview").
		Tags([]string{"dg", "device-grader"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.ActiveSessionsStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.Panics()))

	b.WithRow(dashboard.NewRowBuilder("Grading").
		WithPanel(panels.GradesByGrade()).
		WithPanel(panels.GradesBySource()).
		WithPanel(panels.GateOutcomes()).
		WithPanel(panels.InsufficientDataRate()).
		WithPanel(panels.ManualOverrides()).
		WithPanel(panels.FinalPriceDistribution()))

	b.WithRow(dashboard.NewRowBuilder("Valuation").
		WithPanel(panels.ValuationRequests()).
		WithPanel(panels.ValuationLatency()).
		WithPanel(panels.CacheHitRatio()).
		WithPanel(panels.BreakerState()).
		WithPanel(panels.Superseded()))

	b.WithRow(dashboard.NewRowBuilder("Sessions").
		WithPanel(panels.SessionsReaped()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
