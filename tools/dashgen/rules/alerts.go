package rules

// AlertRules returns the operational alerts for the grader: availability,
// HTTP errors, price coverage and the remote valuation path.
func AlertRules() PrometheusRule {
	return newResource("dg-alerts", RuleGroup{
		Name: "dg-alerts",
		Rules: []Rule{
			alert("DgDown", `absent(up{job="device-grader"})`, "2m", SeverityCritical,
				"Device grader is down",
				"The device-grader job has been absent for more than 2 minutes."),
			alert("DgReadinessDown", `dg_readyz_up == 0`, "2m", SeverityCritical,
				"Device grader readiness check is failing",
				"The database or valuation cache has been unreachable for more than 2 minutes."),
			alert("DgHighErrorRate", `dg:http_errors:rate5m / dg:http_requests:rate5m > 0.05`, "5m", SeverityWarning,
				"High HTTP error rate on device grader",
				"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
			alert("DgInsufficientData", `dg:insufficient_data:rate5m / dg:grades:rate5m > 0.2`, "15m", SeverityWarning,
				"Many audits have no usable price",
				"More than 20% of grade results had no base price for 15 minutes. Check price table coverage."),
			alert("DgValuationFailures", `dg:valuation_failures:rate5m / dg:valuation_requests:rate5m > 0.25`, "5m",
				SeverityWarning,
				"Remote valuation failure rate is elevated",
				"More than 25% of remote valuation calls failed; audits fall back to local pricing."),
			alert("DgValuationBreakerOpen", `max(dg_valuation_breaker_state) == 2`, "1m", SeverityWarning,
				"Valuation circuit breaker is open",
				"Remote valuation calls are short-circuited; every audit is priced locally."),
			alert("DgPanics", `increase(dg_http_panics_total[5m]) > 0`, "0m", SeverityWarning,
				"Handler panics recovered",
				"One or more HTTP handlers panicked in the last 5 minutes."),
		},
	})
}
