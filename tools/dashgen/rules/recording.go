package rules

// RecordingRules returns the pre-computed rates the dashboard and the alert
// rules build on.
func RecordingRules() PrometheusRule {
	return newResource("dg-recording-rules", RuleGroup{
		Name: "dg-recording",
		Rules: []Rule{
			record("dg:http_requests:rate5m", `sum(rate(dg_http_requests_total[5m]))`),
			record("dg:http_errors:rate5m", `sum(rate(dg_http_requests_total{status=~"5.."}[5m]))`),
			record("dg:grades:rate5m", `sum(rate(dg_grades_total[5m]))`),
			record("dg:insufficient_data:rate5m", `sum(rate(dg_insufficient_data_total[5m]))`),
			record("dg:valuation_requests:rate5m", `sum(rate(dg_valuation_requests_total[5m]))`),
			record("dg:valuation_failures:rate5m", `sum(rate(dg_valuation_requests_total{outcome!="ok"}[5m]))`),
		},
	})
}
