package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/device-grader/tools/dashgen/dashboards"
	"github.com/donaldgifford/device-grader/tools/dashgen/panels"
	"github.com/donaldgifford/device-grader/tools/dashgen/rules"
	"github.com/donaldgifford/device-grader/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	dash, err := dashboards.BuildOverview().Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "dg-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Device Grader Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	assert.Len(t, dash.Panels, 5)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 20, totalPanels)

	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "dg-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "dg-recording", group.Name)

	expectedRecords := []string{
		"dg:http_requests:rate5m",
		"dg:http_errors:rate5m",
		"dg:grades:rate5m",
		"dg:insufficient_data:rate5m",
		"dg:valuation_requests:rate5m",
		"dg:valuation_failures:rate5m",
	}
	require.Len(t, group.Rules, len(expectedRecords))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.True(t, KnownMetrics[rule.Record], "record %s missing from KnownMetrics", rule.Record)
	}

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "dg-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "dg-alerts", group.Name)

	expectedAlerts := []string{
		"DgDown",
		"DgReadinessDown",
		"DgHighErrorRate",
		"DgInsufficientData",
		"DgValuationFailures",
		"DgValuationBreakerOpen",
		"DgPanics",
	}
	require.Len(t, group.Rules, len(expectedAlerts))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}
}

func TestAlertRules_Severities(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	critical := map[string]bool{}
	for _, r := range cr.Rules() {
		if r.Labels["severity"] == string(rules.SeverityCritical) {
			critical[r.Alert] = true
		}
	}
	assert.Equal(t, map[string]bool{"DgDown": true, "DgReadinessDown": true}, critical)

	recording := rules.RecordingRules()
	assert.Len(t, recording.Rules(), 6)
	assert.Equal(t, map[string]string{"prometheus": "system-rules-prometheus"}, recording.Metadata.Labels)
}

func TestValidateRules(t *testing.T) {
	t.Parallel()

	res := validate.Rules(KnownMetrics, rules.RecordingRules(), rules.AlertRules())
	assert.True(t, res.Ok(), "validation errors: %v", res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidateExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expr   string
		wantOk bool
	}{
		{name: "known counter", expr: `rate(dg_grades_total[5m])`, wantOk: true},
		{name: "histogram bucket", expr: `sum(rate(dg_final_price_bucket[5m])) by (le)`, wantOk: true},
		{name: "recording rule", expr: `dg:grades:rate5m * 2`, wantOk: true},
		{name: "unknown metric", expr: `rate(dg_listings_total[5m])`, wantOk: false},
		{name: "syntax error", expr: `sum(rate(dg_grades_total[5m])`, wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := validate.Expr(tt.expr, KnownMetrics)
			assert.Equal(t, tt.wantOk, res.Ok(), "errors: %v", res.Errors)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		want string
	}{
		{
			name: "rate",
			expr: panels.Rate("dg_grades_total"),
			want: `rate(dg_grades_total{job="device-grader"}[5m])`,
		},
		{
			name: "sum rate by label",
			expr: panels.SumRateBy("dg_grades_total", "grade"),
			want: `sum by (grade) (rate(dg_grades_total{job="device-grader"}[5m]))`,
		},
		{
			name: "increase",
			expr: panels.Increase("dg_http_panics_total", "24h"),
			want: `increase(dg_http_panics_total{job="device-grader"}[24h])`,
		},
		{
			name: "aggregate",
			expr: panels.Aggregate("max", "dg_valuation_breaker_state"),
			want: `max(dg_valuation_breaker_state{job="device-grader"})`,
		},
		{
			name: "quantile",
			expr: panels.Quantile(0.95, "dg_valuation_duration_seconds"),
			want: `histogram_quantile(0.95, sum(rate(dg_valuation_duration_seconds_bucket{job="device-grader"}[5m])) by (le))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.expr)
			res := validate.Expr(tt.expr, KnownMetrics)
			assert.True(t, res.Ok(), "errors: %v", res.Errors)
		})
	}
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, run(Config{OutputDir: dir, DashboardEnabled: true, RulesEnabled: true}, false))

	for _, p := range []string{
		filepath.Join("grafana", "data", "dg-overview.json"),
		filepath.Join("prometheus", "dg-recording-rules.yaml"),
		filepath.Join("prometheus", "dg-alerts.yaml"),
	} {
		data, err := os.ReadFile(filepath.Join(dir, p))
		require.NoError(t, err, p)
		assert.NotEmpty(t, data, p)
	}

	rulesYAML, err := os.ReadFile(filepath.Join(dir, "prometheus", "dg-alerts.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(rulesYAML), generatedHeader)
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, run(Config{OutputDir: dir, RulesEnabled: true}, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
