// Package score implements the legacy point-based condition estimator. It
// produces the coarse 4-tier result still keyed by older price tables.
package score

import (
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

const startingPoints = 100

// Penalties defines the point deductions applied by the legacy heuristic.
type Penalties struct {
	BatteryCritical float64 // below this health the result is a_revision
	Battery70       float64
	Battery75       float64
	Battery80       float64
	WearHigh        float64
	WearMedium      float64
	WearLow         float64
	MinorScreen     float64
	PristineBonus   float64
}

// DefaultPenalties returns the penalties used by existing price tables.
func DefaultPenalties() Penalties {
	return Penalties{
		BatteryCritical: 70,
		Battery70:       25,
		Battery75:       10,
		Battery80:       5,
		WearHigh:        15,
		WearMedium:      8,
		WearLow:         3,
		MinorScreen:     5,
		PristineBonus:   3,
	}
}

// Breakdown shows per-factor point changes.
type Breakdown struct {
	Battery float64 `json:"battery"`
	Sides   float64 `json:"sides"`
	Back    float64 `json:"back"`
	Screen  float64 `json:"screen"`
	Bonus   float64 `json:"bonus"`
	Total   int     `json:"total"`

	// HardFloor names the condition that forced a_revision, if any.
	HardFloor string             `json:"hard_floor,omitempty"`
	Result    domain.LegacyGrade `json:"result"`
}

// ScoreLegacy returns the legacy grade for an inspection using the default
// penalties.
func ScoreLegacy(c *domain.CanonicalInspection) domain.LegacyGrade {
	return Score(c, DefaultPenalties()).Result
}

// Score computes the legacy point breakdown for an inspection.
func Score(c *domain.CanonicalInspection, p Penalties) Breakdown {
	b := Breakdown{}

	if reason := hardFloor(c, p); reason != "" {
		b.HardFloor = reason
		b.Result = domain.LegacyReview
		return b
	}

	b.Battery = -batteryPenalty(c.BatteryHealthPct, p)
	b.Sides = -wearPenalty(c.SidesCosmetic.Wear(), p)
	b.Back = -wearPenalty(c.BackCosmetic.Wear(), p)

	if c.BrightSpots {
		b.Screen -= p.MinorScreen
	}
	if c.DeadPixels {
		b.Screen -= p.MinorScreen
	}

	if c.Physical == domain.PhysicalPerfect && c.Functional == domain.FunctionalWorks {
		b.Bonus = p.PristineBonus
	}

	total := startingPoints + b.Battery + b.Sides + b.Back + b.Screen + b.Bonus
	b.Total = int(total)
	b.Result = Bucket(b.Total)

	return b
}

// Bucket maps a point total onto the legacy grade scale.
func Bucket(total int) domain.LegacyGrade {
	switch {
	case total >= 90:
		return domain.LegacyExcellent
	case total >= 80:
		return domain.LegacyVeryGood
	case total >= 65:
		return domain.LegacyGood
	default:
		return domain.LegacyReview
	}
}

// hardFloor mirrors the gate evaluator: any of these short-circuits to
// a_revision.
func hardFloor(c *domain.CanonicalInspection, p Penalties) string {
	switch {
	case c.Physical == domain.PhysicalDamaged:
		return "physical damage"
	case c.Functional == domain.FunctionalNoPower:
		return "does not power on"
	case c.Functional == domain.FunctionalScreenBroken:
		return "screen broken"
	case c.ScreenImageDefect == domain.ScreenDefectLinesOrBurn:
		return "burn-in/permanent lines"
	case c.BatteryHealthPct != nil && *c.BatteryHealthPct < p.BatteryCritical:
		return "battery below critical health"
	default:
		return ""
	}
}

// batteryPenalty returns the points lost to battery wear. Unknown health
// costs nothing.
func batteryPenalty(health *float64, p Penalties) float64 {
	if health == nil {
		return 0
	}
	switch h := *health; {
	case h < 75:
		return p.Battery70
	case h < 80:
		return p.Battery75
	case h < 85:
		return p.Battery80
	default:
		return 0
	}
}

func wearPenalty(w domain.WearLevel, p Penalties) float64 {
	switch w {
	case domain.WearHigh:
		return p.WearHigh
	case domain.WearMedium:
		return p.WearMedium
	case domain.WearLow:
		return p.WearLow
	default:
		return 0
	}
}
