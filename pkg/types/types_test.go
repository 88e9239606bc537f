package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestWorseGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b, want Grade
	}{
		{GradeAPlus, GradeA, GradeA},
		{GradeB, GradeAPlus, GradeB},
		{GradeC, GradeC, GradeC},
		{GradeD, GradeC, GradeD},
		{GradeR, GradeD, GradeR},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+"_"+string(tt.b), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, WorseGrade(tt.a, tt.b))
		})
	}
}

func TestGrade_Legacy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LegacyExcellent, GradeAPlus.Legacy())
	assert.Equal(t, LegacyExcellent, GradeA.Legacy())
	assert.Equal(t, LegacyVeryGood, GradeB.Legacy())
	assert.Equal(t, LegacyGood, GradeC.Legacy())
	assert.Equal(t, LegacyReview, GradeD.Legacy())
	assert.Equal(t, LegacyReview, GradeR.Legacy())
}

func TestGrade_Cosmetic(t *testing.T) {
	t.Parallel()

	assert.True(t, GradeAPlus.Cosmetic())
	assert.True(t, GradeC.Cosmetic())
	assert.False(t, GradeD.Cosmetic())
	assert.False(t, GradeR.Cosmetic())
	assert.False(t, Grade("Z").Cosmetic())
}

func TestWorseHousing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HousingWorn, WorseHousing(HousingMinimal, HousingWorn))
	assert.Equal(t, HousingWorn, WorseHousing(HousingWorn, HousingMinimal))
	assert.Equal(t, HousingBent, WorseHousing(HousingBent, HousingPristine))
	assert.Equal(t, HousingPristine, WorseHousing(HousingPristine, HousingPristine))
}

func TestSeverityOrder(t *testing.T) {
	t.Parallel()

	for i, s := range GlassStatuses {
		assert.Equal(t, i, s.Severity())
	}
	for i, s := range HousingStatuses {
		assert.Equal(t, i, s.Severity())
	}
	assert.Equal(t, -1, GlassStatus("SHATTERED").Severity())
}

func TestCanonicalInspection_HasFunctionalFailure(t *testing.T) {
	t.Parallel()

	c := &CanonicalInspection{FunctionalChecks: []*bool{nil, boolPtr(true), nil}}
	assert.False(t, c.HasFunctionalFailure(), "untested slots are not failures")

	c.FunctionalChecks = append(c.FunctionalChecks, boolPtr(false))
	assert.True(t, c.HasFunctionalFailure())
}

func TestDeductionOverride_Active(t *testing.T) {
	t.Parallel()

	zero := 0.0
	assert.False(t, DeductionOverride{RepairCost: 20}.Active())
	assert.True(t, DeductionOverride{Screen: &zero}.Active(), "a pinned zero is still an override")
}

func TestPriceTable_Price(t *testing.T) {
	t.Parallel()

	var nilTable *PriceTable
	_, ok := nilTable.Price("A")
	assert.False(t, ok)

	pt := &PriceTable{Prices: map[string]float64{"A": 120}}
	v, ok := pt.Price("A")
	assert.True(t, ok)
	assert.InDelta(t, 120.0, v, 0.001)
}

func TestDeviceType_HasBattery(t *testing.T) {
	t.Parallel()

	assert.True(t, DevicePhone.HasBattery())
	assert.True(t, DeviceLaptop.HasBattery())
	assert.False(t, DeviceDesktop.HasBattery())
}
