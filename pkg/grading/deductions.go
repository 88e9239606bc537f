package grading

import (
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// batteryDeductionThreshold is the health below which the battery deduction applies.
const batteryDeductionThreshold = 85

// Amounts holds the fixed default deduction amounts.
type Amounts struct {
	Battery float64 `yaml:"battery" json:"battery"`
	Screen  float64 `yaml:"screen"  json:"screen"`
	Chassis float64 `yaml:"chassis" json:"chassis"`
}

// DefaultAmounts returns the deduction amounts used when no configuration
// or remote figures are available.
func DefaultAmounts() Amounts {
	return Amounts{
		Battery: 25,
		Screen:  45,
		Chassis: 35,
	}
}

// LocalDeductions applies the default rule to every field.
func LocalDeductions(c *domain.CanonicalInspection, a Amounts) domain.Deductions {
	d := domain.Deductions{}

	if c.BatteryHealthPct != nil && *c.BatteryHealthPct < batteryDeductionThreshold {
		d.Battery = a.Battery
	}

	switch {
	case c.HasScreenIssue():
		d.Screen = a.Screen
	case c.GlassCosmetic == domain.GlassChip,
		c.GlassCosmetic == domain.GlassDeep,
		c.GlassCosmetic == domain.GlassCrack:
		d.Screen = a.Screen
	}

	if c.HousingCosmetic == domain.HousingWorn || c.HousingCosmetic == domain.HousingBent {
		d.Chassis = a.Chassis
	}

	return d
}

// ComputeDeductions resolves each field independently with the precedence
// override > remote > local rule. remote may be nil.
func ComputeDeductions(
	c *domain.CanonicalInspection,
	o domain.DeductionOverride,
	remote *domain.Deductions,
	a Amounts,
) domain.Deductions {
	d := LocalDeductions(c, a)

	if remote != nil {
		d = *remote
	}

	if o.Battery != nil {
		d.Battery = *o.Battery
	}
	if o.Screen != nil {
		d.Screen = *o.Screen
	}
	if o.Chassis != nil {
		d.Chassis = *o.Chassis
	}

	return d
}
