package grading

import (
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// Gate reasons.
const (
	ReasonSecurity   = "security rejection"
	ReasonNoPower    = "does not power on"
	ReasonCracked    = "screen cracked/broken"
	ReasonBurnIn     = "burn-in/permanent lines"
	ReasonFunctional = "functional subsystem failure"
)

// Cause classifies which surface a D gate is attributable to.
type Cause string

// Cause constants.
const (
	CauseNone   Cause = ""
	CauseScreen Cause = "screen"
	CauseOther  Cause = "other"
)

// GateResult is the outcome of the gate evaluator. A zero Grade means no
// gate matched and grading proceeds to the table or legacy scorer.
type GateResult struct {
	Grade  domain.Grade `json:"grade,omitempty"`
	Reason string       `json:"reason,omitempty"`
}

// Matched reports whether a gate fired.
func (g GateResult) Matched() bool {
	return g.Grade != ""
}

// Rejected reports whether the security gate fired.
func (g GateResult) Rejected() bool {
	return g.Grade == domain.GradeR
}

// Cause returns the surface responsible for a D gate.
func (g GateResult) Cause() Cause {
	switch g.Reason {
	case ReasonCracked, ReasonBurnIn:
		return CauseScreen
	case "":
		return CauseNone
	default:
		return CauseOther
	}
}

// EvaluateGates applies the hard checks in order; the first match wins.
func EvaluateGates(c *domain.CanonicalInspection) GateResult {
	switch {
	case !c.SecurityOK:
		return GateResult{Grade: domain.GradeR, Reason: ReasonSecurity}
	case c.PowersOn != nil && !*c.PowersOn:
		return GateResult{Grade: domain.GradeD, Reason: ReasonNoPower}
	case c.GlassCosmetic == domain.GlassCrack:
		return GateResult{Grade: domain.GradeD, Reason: ReasonCracked}
	case c.ScreenImageDefect == domain.ScreenDefectLinesOrBurn:
		return GateResult{Grade: domain.GradeD, Reason: ReasonBurnIn}
	case c.HasFunctionalFailure():
		return GateResult{Grade: domain.GradeD, Reason: ReasonFunctional}
	default:
		return GateResult{}
	}
}
