package pricing

import (
	"math"

	"github.com/donaldgifford/device-grader/pkg/grading"
	score "github.com/donaldgifford/device-grader/pkg/scorer"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// Input holds everything one evaluation depends on.
type Input struct {
	Inspection *domain.CanonicalInspection
	Prices     *domain.PriceTable
	Override   domain.DeductionOverride
	Remote     *Remote
}

// Resolver computes grade results. It holds only read-only configuration,
// so one Resolver can serve any number of sessions.
type Resolver struct {
	table     grading.Table
	amounts   grading.Amounts
	penalties score.Penalties
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTable replaces the cosmetic grade table.
func WithTable(t grading.Table) Option {
	return func(r *Resolver) {
		r.table = t
	}
}

// WithAmounts replaces the default deduction amounts.
func WithAmounts(a grading.Amounts) Option {
	return func(r *Resolver) {
		r.amounts = a
	}
}

// WithPenalties replaces the legacy scorer penalties.
func WithPenalties(p score.Penalties) Option {
	return func(r *Resolver) {
		r.penalties = p
	}
}

// NewResolver creates a Resolver with the default table and amounts.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		table:     grading.DefaultTable(),
		amounts:   grading.DefaultAmounts(),
		penalties: score.DefaultPenalties(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the cosmetic grade table in use.
func (r *Resolver) Table() grading.Table {
	return r.table
}

// Resolve grades and prices one inspection.
func (r *Resolver) Resolve(in Input) domain.GradeResult {
	c := in.Inspection
	gate := grading.EvaluateGates(c)

	if gate.Rejected() {
		zero := 0.0
		return domain.GradeResult{
			Grade:       domain.GradeR,
			LegacyGrade: domain.LegacyReview,
			Source:      domain.SourceLocalTable,
			Reason:      gate.Reason,
			FinalPrice:  &zero,
		}
	}

	if in.Remote != nil {
		return r.resolveRemote(in, gate)
	}

	if SchemeFor(in.Prices) == SchemeLegacy {
		return r.resolveLegacy(in, gate)
	}
	return r.resolveLetter(in, gate)
}

// resolveRemote grades from the remote response. The remote offer is used
// verbatim only when no deduction is pinned, because the offer cannot be
// decomposed back into editable parts.
func (r *Resolver) resolveRemote(in Input, gate grading.GateResult) domain.GradeResult {
	c := in.Inspection
	cosmetic := r.table.Grade(c.GlassCosmetic, c.HousingCosmetic)

	grade := gate.Grade
	reason := gate.Reason
	if !gate.Matched() {
		grade = in.Remote.Grade(cosmetic)
		if grade == domain.GradeD {
			reason = "remote gate " + in.Remote.Gate
		}
	}

	tier := r.tierFor(c, gate, grade)
	deductions := grading.ComputeDeductions(c, in.Override, &in.Remote.Deductions, r.amounts)

	if in.Override.Active() {
		base := r.basePrice(in, string(tier))
		floor := math.Max(floorOf(in.Prices), in.Remote.Floor)
		res := finish(base, deductions, in.Override.RepairCost, floor)
		res.Grade = grade
		res.LegacyGrade = grade.Legacy()
		res.Source = domain.SourceLocalTable
		res.Reason = reason
		res.PriceTier = string(tier)
		return res
	}

	final := math.Max(in.Remote.Offer-in.Override.RepairCost, 0)
	res := domain.GradeResult{
		Grade:       grade,
		LegacyGrade: grade.Legacy(),
		Source:      domain.SourceRemote,
		Reason:      reason,
		Deductions:  deductions,
		RepairCost:  in.Override.RepairCost,
		FinalPrice:  &final,
		FloorPrice:  in.Remote.Floor,
		PriceTier:   string(tier),
		NeedsReview: in.Override.RepairCost > 0 && in.Remote.Offer-in.Override.RepairCost <= 0,
	}
	if base, ok := in.Remote.TierPrice(string(tier)); ok {
		res.BasePrice = &base
	}
	return res
}

func (r *Resolver) resolveLetter(in Input, gate grading.GateResult) domain.GradeResult {
	c := in.Inspection

	grade := gate.Grade
	if !gate.Matched() {
		grade = r.table.Grade(c.GlassCosmetic, c.HousingCosmetic)
	}

	tier := r.tierFor(c, gate, grade)
	deductions := grading.ComputeDeductions(c, in.Override, nil, r.amounts)

	res := finish(r.basePrice(in, string(tier)), deductions, in.Override.RepairCost, floorOf(in.Prices))
	res.Grade = grade
	res.LegacyGrade = grade.Legacy()
	res.Source = domain.SourceLocalTable
	res.Reason = gate.Reason
	res.PriceTier = string(tier)
	return res
}

// resolveLegacy serves price tables still keyed by the 4-tier scale. The
// letter grade still comes from the gates and the cosmetic table, but the
// price tier comes from the legacy scorer alone.
func (r *Resolver) resolveLegacy(in Input, gate grading.GateResult) domain.GradeResult {
	c := in.Inspection
	legacy := score.Score(c, r.penalties).Result

	key := string(legacy)
	if gate.Matched() {
		legacy = domain.LegacyReview
		key = string(r.mirroredTier(c, gate).Legacy())
	}

	deductions := grading.ComputeDeductions(c, in.Override, nil, r.amounts)

	res := finish(r.basePrice(in, key), deductions, in.Override.RepairCost, floorOf(in.Prices))
	res.Grade = gate.Grade
	if !gate.Matched() {
		res.Grade = r.table.Grade(c.GlassCosmetic, c.HousingCosmetic)
	}
	res.LegacyGrade = legacy
	res.Source = domain.SourceLegacyHeuristic
	res.Reason = gate.Reason
	res.PriceTier = key
	return res
}

// tierFor returns the price tier for grade, substituting the mirrored rule
// for D.
func (r *Resolver) tierFor(c *domain.CanonicalInspection, gate grading.GateResult, grade domain.Grade) domain.Grade {
	if grade == domain.GradeD {
		return r.mirroredTier(c, gate)
	}
	return grade
}

// mirroredTier prices a defective device at the tier of the surface that
// did not cause the defect. A screen gate mirrors onto the housing; a D the
// local gates did not raise, on a bent chassis with an intact screen,
// mirrors onto the glass. Every other D, including power and functional
// failures and defects on both surfaces, takes the worse tier.
func (r *Resolver) mirroredTier(c *domain.CanonicalInspection, gate grading.GateResult) domain.Grade {
	screenHit := c.GlassCosmetic == domain.GlassCrack ||
		c.ScreenImageDefect == domain.ScreenDefectLinesOrBurn
	chassisHit := c.HousingCosmetic == domain.HousingBent

	glassTier := r.table.GlassTier(c.GlassCosmetic)
	housingTier := r.table.HousingTier(c.HousingCosmetic)

	switch cause := gate.Cause(); {
	case cause == grading.CauseScreen && !chassisHit:
		return housingTier
	case cause == grading.CauseNone && chassisHit && !screenHit:
		return glassTier
	default:
		return domain.WorseGrade(glassTier, housingTier)
	}
}

// MirroredTier exposes the mirrored D tier for callers that price outside
// the resolver.
func (r *Resolver) MirroredTier(c *domain.CanonicalInspection) domain.Grade {
	return r.mirroredTier(c, grading.EvaluateGates(c))
}

// basePrice looks the tier up in the local table, then in the remote tier
// prices. Nil means the data is insufficient.
func (r *Resolver) basePrice(in Input, key string) *float64 {
	if v, ok := in.Prices.Price(key); ok {
		return &v
	}
	if v, ok := in.Remote.TierPrice(key); ok {
		return &v
	}
	return nil
}

func floorOf(t *domain.PriceTable) float64 {
	if t == nil {
		return 0
	}
	return t.Floor
}

// finish applies max(base - deductions - repair, floor, 0).
func finish(base *float64, d domain.Deductions, repair, floor float64) domain.GradeResult {
	res := domain.GradeResult{
		Deductions: d,
		RepairCost: repair,
		BasePrice:  base,
		FloorPrice: floor,
	}

	if base == nil {
		res.InsufficientData = true
		return res
	}

	raw := *base - d.Total() - repair
	final := math.Max(math.Max(raw, floor), 0)
	res.FinalPrice = &final
	res.NeedsReview = raw <= 0 || raw < floor
	return res
}
