// Package pricing turns a grade into a price: tier selection against the
// price table, the mirrored D rule, deductions, the price floor and
// reconciliation with a remote valuation.
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// Scheme identifies which grading system a price table is keyed by.
type Scheme int

// Price table schemes.
const (
	SchemeUnknown Scheme = iota
	SchemeLetter
	SchemeLegacy
)

func (s Scheme) String() string {
	switch s {
	case SchemeLetter:
		return "letter"
	case SchemeLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

var letterKeys = []string{
	string(domain.GradeAPlus), string(domain.GradeA), string(domain.GradeB), string(domain.GradeC),
}

var legacyKeys = []string{
	string(domain.LegacyExcellent), string(domain.LegacyVeryGood),
	string(domain.LegacyGood), string(domain.LegacyReview),
}

// SchemeFor picks the grading system from the keys present in t. Letter keys
// win when both are present; the two are never blended.
func SchemeFor(t *domain.PriceTable) Scheme {
	if t == nil {
		return SchemeUnknown
	}
	for _, k := range letterKeys {
		if _, ok := t.Prices[k]; ok {
			return SchemeLetter
		}
	}
	for _, k := range legacyKeys {
		if _, ok := t.Prices[k]; ok {
			return SchemeLegacy
		}
	}
	return SchemeUnknown
}

// tierAliases maps historical payload keys onto canonical tier keys.
var tierAliases = map[string]string{
	"A+":         "A+",
	"a+":         "A+",
	"APLUS":      "A+",
	"V_Aplus":    "A+",
	"A":          "A",
	"V_A":        "A",
	"B":          "B",
	"V_B":        "B",
	"C":          "C",
	"V_C":        "C",
	"excelente":  "excelente",
	"muy_bueno":  "muy_bueno",
	"bueno":      "bueno",
	"a_revision": "a_revision",
}

// tierContainers are nested objects some payload versions keep tiers under.
var tierContainers = []string{"precios", "prices", "precio_por_estado"}

// floorPaths are the known locations of the floor price, most recent first.
var floorPaths = [][]string{
	{"params", "V_suelo"},
	{"V_suelo"},
	{"precio_suelo"},
	{"suelo"},
	{"floor_price"},
	{"params", "v_suelo"},
	{"meta", "precio_minimo"},
}

// ParsePriceTable normalizes a price-table payload of any known shape.
func ParsePriceTable(raw map[string]any) *domain.PriceTable {
	t := &domain.PriceTable{
		Prices: map[string]float64{},
		Raw:    raw,
	}

	collectTiers(raw, t.Prices)
	for _, c := range tierContainers {
		if nested, ok := raw[c].(map[string]any); ok {
			collectTiers(nested, t.Prices)
		}
	}

	t.Floor = FloorPrice(raw)
	return t
}

// ParsePriceTableJSON decodes a JSON payload and normalizes it.
func ParsePriceTableJSON(data []byte) (*domain.PriceTable, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return ParsePriceTable(raw), nil
}

func collectTiers(m map[string]any, out map[string]float64) {
	for k, v := range m {
		key, ok := tierAliases[k]
		if !ok {
			continue
		}
		if f, ok := number(v); ok {
			out[key] = f
		}
	}
}

// FloorPrice returns the first numeric value found along floorPaths, or 0.
func FloorPrice(raw map[string]any) float64 {
	for _, path := range floorPaths {
		if v, ok := lookup(raw, path); ok {
			if f, ok := number(v); ok && f > 0 {
				return f
			}
		}
	}
	return 0
}

func lookup(m map[string]any, path []string) (any, bool) {
	var cur any = m
	for _, p := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
