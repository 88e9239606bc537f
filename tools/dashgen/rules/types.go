// Package rules generates the device-grader Prometheus recording and alert
// rules as Prometheus Operator PrometheusRule resources.
package rules

const (
	apiVersion = "monitoring.coreos.com/v1"
	kind       = "PrometheusRule"

	// ruleSelector is the label the system Prometheus selects rule
	// resources by.
	ruleSelector = "system-rules-prometheus"
)

// Severity is the severity label attached to an alert.
type Severity string

// Alert severities.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// PrometheusRule is a Kubernetes custom resource for Prometheus Operator.
type PrometheusRule struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   PrometheusRuleMetadata `yaml:"metadata"`
	Spec       PrometheusRuleSpec     `yaml:"spec"`
}

// PrometheusRuleMetadata holds the resource name and labels.
type PrometheusRuleMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// PrometheusRuleSpec holds the rule groups.
type PrometheusRuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is a named set of rules evaluated together.
type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule is a recording rule when Record is set, an alert when Alert is.
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// newResource wraps groups in a PrometheusRule picked up by the system
// Prometheus.
func newResource(name string, groups ...RuleGroup) PrometheusRule {
	return PrometheusRule{
		APIVersion: apiVersion,
		Kind:       kind,
		Metadata: PrometheusRuleMetadata{
			Name:   name,
			Labels: map[string]string{"prometheus": ruleSelector},
		},
		Spec: PrometheusRuleSpec{Groups: groups},
	}
}

// record builds a recording rule.
func record(name, expr string) Rule {
	return Rule{Record: name, Expr: expr}
}

// alert builds an alerting rule with summary and description annotations.
func alert(name, expr, pending string, sev Severity, summary, description string) Rule {
	return Rule{
		Alert:  name,
		Expr:   expr,
		For:    pending,
		Labels: map[string]string{"severity": string(sev)},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}

// Rules returns every rule of every group, in order.
func (p *PrometheusRule) Rules() []Rule {
	var out []Rule
	for _, g := range p.Spec.Groups {
		out = append(out, g.Rules...)
	}
	return out
}
