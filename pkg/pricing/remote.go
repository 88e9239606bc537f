package pricing

import (
	"strings"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// GateOK is the remote gate value for a device that passed every check.
const GateOK = "OK"

// Remote is an authoritative valuation returned by the pricing service.
type Remote struct {
	Gate          string
	CosmeticGrade string
	TierPrices    map[string]float64
	Ceiling       float64
	Deductions    domain.Deductions
	Floor         float64
	FloorRule     string
	Offer         float64
}

// Grade maps the remote (gate, grado_estetico) pair to a grade. A non-OK
// gate forces D; an unrecognized cosmetic grade yields fallback.
func (r *Remote) Grade(fallback domain.Grade) domain.Grade {
	if !strings.EqualFold(strings.TrimSpace(r.Gate), GateOK) {
		return domain.GradeD
	}

	switch strings.ToUpper(strings.TrimSpace(r.CosmeticGrade)) {
	case "A+", "APLUS":
		return domain.GradeAPlus
	case "A":
		return domain.GradeA
	case "B":
		return domain.GradeB
	case "C":
		return domain.GradeC
	default:
		return fallback
	}
}

// TierPrice returns the remote price for a tier key.
func (r *Remote) TierPrice(key string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	v, ok := r.TierPrices[key]
	return v, ok
}
