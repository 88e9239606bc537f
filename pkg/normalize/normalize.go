// Package normalize converts raw audit-form selections into the canonical
// inspection record consumed by every grading and pricing calculator.
//
// Normalization never fails: malformed numbers become nil and unknown keys
// fall back to the most neutral value for their field.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// Selections holds the raw values picked in the audit wizard. Numeric and
// tri-state fields accept JSON numbers, booleans or strings.
type Selections struct {
	// Security
	ActivationLock string `json:"activation_lock"` // on, off
	SimLock        string `json:"sim_lock"`        // blocked, free
	MDM            string `json:"mdm"`             // managed, none
	Blacklist      string `json:"blacklist"`       // reported, clean

	// Power and charging
	PowersOn        any `json:"powers_on"`
	ChargesByCable  any `json:"charges_by_cable"`
	ChargesWireless any `json:"charges_wireless"`

	// Battery
	BatteryPct    any `json:"battery_pct"`
	BatteryCycles any `json:"battery_cycles"`

	// Functional checklist
	FunctionalChecks map[domain.Subsystem]any `json:"functional_checks"`
	ScreenIssues     []string                 `json:"screen_issues"`

	// Cosmetic tiers
	GlassTier string `json:"glass_tier"`
	SidesTier string `json:"sides_tier"`
	BackTier  string `json:"back_tier"`
}

// Normalize builds a CanonicalInspection from raw selections.
func Normalize(s *Selections) domain.CanonicalInspection {
	c := domain.CanonicalInspection{
		SecurityOK:      securityOK(s),
		PowersOn:        TriState(s.PowersOn),
		ChargesByCable:  TriState(s.ChargesByCable),
		ChargesWireless: TriState(s.ChargesWireless),

		BatteryHealthPct: BatteryPercent(s.BatteryPct),
		BatteryCycles:    Cycles(s.BatteryCycles),

		FunctionalChecks: functionalSlots(s.FunctionalChecks),

		GlassCosmetic: Glass(s.GlassTier),
		SidesCosmetic: Housing(s.SidesTier),
		BackCosmetic:  Housing(s.BackTier),
	}

	c.HousingCosmetic = domain.WorseHousing(c.SidesCosmetic, c.BackCosmetic)
	c.ScreenImageDefect, c.BrightSpots, c.DeadPixels = screenDefects(s.ScreenIssues)
	c.Physical = physicalState(&c)
	c.Functional = functionalState(&c)

	return c
}

// Canonicalize re-derives every computed field of an inspection supplied
// directly instead of built from selections. Enum values are mapped through
// the same aliases as selections, housing becomes the worst of sides and
// back, and the legacy states are recomputed. A side left empty takes the
// reported overall housing.
func Canonicalize(in *domain.CanonicalInspection) domain.CanonicalInspection {
	c := *in

	if c.BatteryHealthPct != nil {
		c.BatteryHealthPct = BatteryPercent(*c.BatteryHealthPct)
	}
	if c.BatteryCycles != nil && *c.BatteryCycles < 0 {
		c.BatteryCycles = nil
	}

	checks := make([]*bool, max(len(c.FunctionalChecks), len(domain.Subsystems)))
	copy(checks, c.FunctionalChecks)
	c.FunctionalChecks = checks

	c.ScreenImageDefect, c.BrightSpots, c.DeadPixels = screenDefect(c.ScreenImageDefect, c.BrightSpots, c.DeadPixels)

	c.GlassCosmetic = Glass(string(c.GlassCosmetic))

	overall := Housing(string(c.HousingCosmetic))
	c.SidesCosmetic = housingOr(c.SidesCosmetic, overall)
	c.BackCosmetic = housingOr(c.BackCosmetic, overall)
	c.HousingCosmetic = domain.WorseHousing(c.SidesCosmetic, c.BackCosmetic)

	c.Physical = physicalState(&c)
	c.Functional = functionalState(&c)

	return c
}

func housingOr(s, fallback domain.HousingStatus) domain.HousingStatus {
	if strings.TrimSpace(string(s)) == "" {
		return fallback
	}
	return Housing(string(s))
}

// screenDefect reconciles a reported worst defect with the minor-defect
// flags. Each raises the other.
func screenDefect(
	d domain.ScreenImageDefect,
	spots, deadPixels bool,
) (domain.ScreenImageDefect, bool, bool) {
	switch strings.ToLower(strings.TrimSpace(string(d))) {
	case "linesorburn", "lines_or_burn", "lines", "burn_in":
		return domain.ScreenDefectLinesOrBurn, spots, deadPixels
	case "deadpixels", "dead_pixels":
		return domain.ScreenDefectDeadPixels, spots, true
	case "spots", "bright_spots":
		if deadPixels {
			return domain.ScreenDefectDeadPixels, true, true
		}
		return domain.ScreenDefectSpots, true, deadPixels
	}

	switch {
	case deadPixels:
		return domain.ScreenDefectDeadPixels, spots, true
	case spots:
		return domain.ScreenDefectSpots, true, false
	default:
		return domain.ScreenDefectNone, false, false
	}
}

func securityOK(s *Selections) bool {
	switch {
	case matches(s.ActivationLock, "on", "yes", "si", "true", "activado"):
		return false
	case matches(s.SimLock, "blocked", "bloqueado", "locked"):
		return false
	case matches(s.MDM, "managed", "gestionado", "yes", "si", "true"):
		return false
	case matches(s.Blacklist, "reported", "reportado", "blacklisted"):
		return false
	default:
		return true
	}
}

func matches(v string, options ...string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// TriState parses a yes/no answer. Unanswered or unrecognized input is nil.
func TriState(v any) *bool {
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case *bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "si", "sí", "true", "ok", "1":
			b = true
		case "no", "false", "0":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}

// BatteryPercent parses a battery health percentage. Values outside 0..100
// and non-finite values yield nil.
func BatteryPercent(v any) *float64 {
	f, ok := toFloat(v)
	if !ok || f < 0 || f > 100 {
		return nil
	}
	return &f
}

// Cycles parses a battery cycle count. Negative or non-finite values yield nil.
func Cycles(v any) *int {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
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
		s := strings.TrimSuffix(strings.TrimSpace(n), "%")
		s = strings.ReplaceAll(s, ",", ".")
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
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

func functionalSlots(checks map[domain.Subsystem]any) []*bool {
	slots := make([]*bool, len(domain.Subsystems))
	for i, sub := range domain.Subsystems {
		slots[i] = TriState(checks[sub])
	}
	return slots
}

// screenDefects reduces the selected display issues to the worst defect,
// keeping the minor-defect flags the legacy scorer needs.
func screenDefects(issues []string) (worst domain.ScreenImageDefect, spots, deadPixels bool) {
	worst = domain.ScreenDefectNone
	var lines bool
	for _, issue := range issues {
		switch strings.ToLower(strings.TrimSpace(issue)) {
		case "spots", "bright_spots", "manchas":
			spots = true
		case "dead_pixels", "deadpixels", "pixeles_muertos":
			deadPixels = true
		case "lines", "lineas", "burn_in", "burn", "quemado", "lines_or_burn":
			lines = true
		}
	}

	switch {
	case lines:
		worst = domain.ScreenDefectLinesOrBurn
	case deadPixels:
		worst = domain.ScreenDefectDeadPixels
	case spots:
		worst = domain.ScreenDefectSpots
	}
	return worst, spots, deadPixels
}

var glassAliases = map[string]domain.GlassStatus{
	"none":            domain.GlassNone,
	"perfecto":        domain.GlassNone,
	"micro":           domain.GlassMicro,
	"micro_rayas":     domain.GlassMicro,
	"visible":         domain.GlassVisible,
	"rayas_visibles":  domain.GlassVisible,
	"chip":            domain.GlassChip,
	"desconchado":     domain.GlassChip,
	"deep":            domain.GlassDeep,
	"rayas_profundas": domain.GlassDeep,
	"crack":           domain.GlassCrack,
	"roto":            domain.GlassCrack,
	"agrietado":       domain.GlassCrack,
}

// Glass maps a cosmetic tier key to a GlassStatus. Empty or unknown keys
// map to NONE.
func Glass(key string) domain.GlassStatus {
	k := strings.ToLower(strings.TrimSpace(key))
	if s, ok := glassAliases[k]; ok {
		return s
	}
	return domain.GlassNone
}

var housingAliases = map[string]domain.HousingStatus{
	"sin_signos":       domain.HousingPristine,
	"none":             domain.HousingPristine,
	"minimos":          domain.HousingMinimal,
	"algunos":          domain.HousingSome,
	"desgaste_visible": domain.HousingWorn,
	"doblado":          domain.HousingBent,
	"bent":             domain.HousingBent,
}

// Housing maps a cosmetic tier key to a HousingStatus. Empty or unknown keys
// map to SIN_SIGNOS.
func Housing(key string) domain.HousingStatus {
	k := strings.ToLower(strings.TrimSpace(key))
	if s, ok := housingAliases[k]; ok {
		return s
	}
	return domain.HousingPristine
}

func physicalState(c *domain.CanonicalInspection) domain.PhysicalState {
	glass := c.GlassCosmetic.Severity()
	housing := c.HousingCosmetic.Severity()
	switch {
	case c.GlassCosmetic == domain.GlassCrack || c.HousingCosmetic == domain.HousingBent:
		return domain.PhysicalDamaged
	case glass == 0 && housing == 0:
		return domain.PhysicalPerfect
	case glass <= domain.GlassMicro.Severity() && housing <= domain.HousingMinimal.Severity():
		return domain.PhysicalGood
	default:
		return domain.PhysicalFair
	}
}

func functionalState(c *domain.CanonicalInspection) domain.FunctionalState {
	switch {
	case c.PowersOn != nil && !*c.PowersOn:
		return domain.FunctionalNoPower
	case c.GlassCosmetic == domain.GlassCrack:
		return domain.FunctionalScreenBroken
	case c.HasFunctionalFailure():
		return domain.FunctionalFaults
	default:
		return domain.FunctionalWorks
	}
}
