// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics the grader does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/device-grader/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings are
// reported only.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// histogramSuffixes are series derived from a histogram's base name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Expr parses one PromQL expression and checks every selected metric
// against known.
func Expr(expr string, known map[string]bool) Result {
	var res Result

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%q: %v", expr, err))
		return res
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !knownMetric(vs.Name, known) {
			res.Errors = append(res.Errors, fmt.Sprintf("%q: unknown metric %s", expr, vs.Name))
		}
		return nil
	})
	return res
}

func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

// Dashboard validates every query expression in a built dashboard. The
// dashboard is walked through its JSON form so any panel type is covered.
func Dashboard(dash any, known map[string]bool) Result {
	var res Result

	data, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("encoding dashboard: %v", err))
		return res
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	exprs := collectExprs(doc, nil)
	if len(exprs) == 0 {
		res.Warnings = append(res.Warnings, "dashboard has no queries")
	}
	sort.Strings(exprs)
	for _, e := range exprs {
		res.merge(Expr(e, known))
	}
	return res
}

func collectExprs(v any, out []string) []string {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if s, ok := child.(string); ok && k == "expr" {
				out = append(out, s)
				continue
			}
			out = collectExprs(child, out)
		}
	case []any:
		for _, child := range t {
			out = collectExprs(child, out)
		}
	}
	return out
}

// Rules validates every rule expression. Record names defined by the rules
// count as known for later rules.
func Rules(known map[string]bool, crs ...rules.PrometheusRule) Result {
	var res Result

	defined := make(map[string]bool, len(known))
	for k, v := range known {
		defined[k] = v
	}

	for i := range crs {
		for _, g := range crs[i].Spec.Groups {
			for _, r := range g.Rules {
				if r.Record == "" && r.Alert == "" {
					res.Errors = append(res.Errors, fmt.Sprintf("group %s: rule without record or alert name", g.Name))
				}
				res.merge(Expr(r.Expr, defined))
				if r.Record != "" {
					defined[r.Record] = true
				}
				if r.Alert != "" && r.Labels["severity"] == "" {
					res.Warnings = append(res.Warnings, fmt.Sprintf("alert %s has no severity", r.Alert))
				}
			}
		}
	}
	return res
}
