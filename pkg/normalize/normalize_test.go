package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

func TestNormalize_Security(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sel  Selections
		want bool
	}{
		{name: "all clear", sel: Selections{ActivationLock: "off", SimLock: "free", MDM: "none", Blacklist: "clean"}, want: true},
		{name: "unanswered passes", sel: Selections{}, want: true},
		{name: "activation lock on", sel: Selections{ActivationLock: "ON"}, want: false},
		{name: "sim blocked", sel: Selections{SimLock: "blocked"}, want: false},
		{name: "mdm managed", sel: Selections{MDM: " managed "}, want: false},
		{name: "blacklist reported", sel: Selections{Blacklist: "reportado"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(&tt.sel)
			assert.Equal(t, tt.want, got.SecurityOK)
		})
	}
}

func TestBatteryPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want *float64
	}{
		{name: "float", in: 87.5, want: ptr(87.5)},
		{name: "int", in: 90, want: ptr(90.0)},
		{name: "string with percent", in: "82%", want: ptr(82.0)},
		{name: "comma decimal", in: "81,5", want: ptr(81.5)},
		{name: "json number", in: json.Number("76"), want: ptr(76.0)},
		{name: "NaN", in: math.NaN(), want: nil},
		{name: "infinity", in: math.Inf(1), want: nil},
		{name: "above range", in: 140.0, want: nil},
		{name: "negative", in: -3, want: nil},
		{name: "garbage", in: "abc", want: nil},
		{name: "missing", in: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := BatteryPercent(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.001)
		})
	}
}

func TestCycles(t *testing.T) {
	t.Parallel()

	got := Cycles("312")
	require.NotNil(t, got)
	assert.Equal(t, 312, *got)

	assert.Nil(t, Cycles(-1))
	assert.Nil(t, Cycles(math.Inf(-1)))
}

func TestTriState(t *testing.T) {
	t.Parallel()

	assert.True(t, *TriState(true))
	assert.True(t, *TriState("si"))
	assert.False(t, *TriState("no"))
	assert.Nil(t, TriState(""))
	assert.Nil(t, TriState(nil))
	assert.Nil(t, TriState(3))
}

func TestNormalize_HousingWorstWins(t *testing.T) {
	t.Parallel()

	got := Normalize(&Selections{SidesTier: "MINIMOS", BackTier: "DESGASTE_VISIBLE"})
	assert.Equal(t, domain.HousingMinimal, got.SidesCosmetic)
	assert.Equal(t, domain.HousingWorn, got.BackCosmetic)
	assert.Equal(t, domain.HousingWorn, got.HousingCosmetic)

	got = Normalize(&Selections{SidesTier: "doblado", BackTier: "sin_signos"})
	assert.Equal(t, domain.HousingBent, got.HousingCosmetic)
}

func TestNormalize_HousingMonotonic(t *testing.T) {
	t.Parallel()

	for _, sides := range domain.HousingStatuses {
		for _, back := range domain.HousingStatuses {
			got := Normalize(&Selections{SidesTier: string(sides), BackTier: string(back)})
			assert.GreaterOrEqual(t, got.HousingCosmetic.Severity(), sides.Severity())
			assert.GreaterOrEqual(t, got.HousingCosmetic.Severity(), back.Severity())
		}
	}
}

func TestNormalize_ScreenIssues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		issues     []string
		want       domain.ScreenImageDefect
		spots      bool
		deadPixels bool
	}{
		{name: "none", issues: nil, want: domain.ScreenDefectNone},
		{name: "spots only", issues: []string{"spots"}, want: domain.ScreenDefectSpots, spots: true},
		{name: "dead pixels beat spots", issues: []string{"spots", "dead_pixels"}, want: domain.ScreenDefectDeadPixels, spots: true, deadPixels: true},
		{name: "lines dominate", issues: []string{"dead_pixels", "lines"}, want: domain.ScreenDefectLinesOrBurn, deadPixels: true},
		{name: "burn in", issues: []string{"burn_in"}, want: domain.ScreenDefectLinesOrBurn},
		{name: "unknown ignored", issues: []string{"smudge"}, want: domain.ScreenDefectNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(&Selections{ScreenIssues: tt.issues})
			assert.Equal(t, tt.want, got.ScreenImageDefect)
			assert.Equal(t, tt.spots, got.BrightSpots)
			assert.Equal(t, tt.deadPixels, got.DeadPixels)
		})
	}
}

func TestNormalize_FunctionalSlots(t *testing.T) {
	t.Parallel()

	got := Normalize(&Selections{
		FunctionalChecks: map[domain.Subsystem]any{
			domain.SubsystemAudio: true,
			domain.SubsystemNFC:   "no",
		},
	})

	require.Len(t, got.FunctionalChecks, len(domain.Subsystems))
	assert.Nil(t, got.FunctionalChecks[0], "telephony untested")
	assert.True(t, *got.FunctionalChecks[1])
	assert.False(t, *got.FunctionalChecks[9])
	assert.True(t, got.HasFunctionalFailure())
	assert.Equal(t, domain.FunctionalFaults, got.Functional)
}

func TestNormalize_LegacyStates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sel        Selections
		physical   domain.PhysicalState
		functional domain.FunctionalState
	}{
		{
			name:       "pristine",
			sel:        Selections{PowersOn: true, GlassTier: "NONE", SidesTier: "SIN_SIGNOS", BackTier: "SIN_SIGNOS"},
			physical:   domain.PhysicalPerfect,
			functional: domain.FunctionalWorks,
		},
		{
			name:       "light wear",
			sel:        Selections{PowersOn: true, GlassTier: "MICRO", SidesTier: "MINIMOS"},
			physical:   domain.PhysicalGood,
			functional: domain.FunctionalWorks,
		},
		{
			name:       "visible wear",
			sel:        Selections{GlassTier: "VISIBLE", BackTier: "ALGUNOS"},
			physical:   domain.PhysicalFair,
			functional: domain.FunctionalWorks,
		},
		{
			name:       "cracked screen",
			sel:        Selections{PowersOn: true, GlassTier: "roto"},
			physical:   domain.PhysicalDamaged,
			functional: domain.FunctionalScreenBroken,
		},
		{
			name:       "no power",
			sel:        Selections{PowersOn: "no"},
			physical:   domain.PhysicalPerfect,
			functional: domain.FunctionalNoPower,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(&tt.sel)
			assert.Equal(t, tt.physical, got.Physical)
			assert.Equal(t, tt.functional, got.Functional)
		})
	}
}

func TestGlass_UnknownDefaultsToNone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.GlassNone, Glass(""))
	assert.Equal(t, domain.GlassNone, Glass("sparkly"))
	assert.Equal(t, domain.GlassDeep, Glass("DEEP"))
}

func ptr[T any](v T) *T { return &v }

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    domain.CanonicalInspection
		check func(t *testing.T, c domain.CanonicalInspection)
	}{
		{
			name: "overall housing fills empty sides",
			in: domain.CanonicalInspection{
				SecurityOK:      true,
				PowersOn:        ptr(true),
				GlassCosmetic:   domain.GlassNone,
				HousingCosmetic: domain.HousingBent,
			},
			check: func(t *testing.T, c domain.CanonicalInspection) {
				t.Helper()
				assert.Equal(t, domain.HousingBent, c.SidesCosmetic)
				assert.Equal(t, domain.HousingBent, c.BackCosmetic)
				assert.Equal(t, domain.HousingBent, c.HousingCosmetic)
				assert.Equal(t, domain.PhysicalDamaged, c.Physical)
				assert.Equal(t, domain.FunctionalWorks, c.Functional)
			},
		},
		{
			name: "housing recomputed from sides and back",
			in: domain.CanonicalInspection{
				SidesCosmetic:   domain.HousingMinimal,
				BackCosmetic:    domain.HousingWorn,
				HousingCosmetic: domain.HousingPristine,
			},
			check: func(t *testing.T, c domain.CanonicalInspection) {
				t.Helper()
				assert.Equal(t, domain.HousingWorn, c.HousingCosmetic)
			},
		},
		{
			name: "lowercase aliases and empty glass",
			in: domain.CanonicalInspection{
				SidesCosmetic: "doblado",
				BackCosmetic:  "minimos",
			},
			check: func(t *testing.T, c domain.CanonicalInspection) {
				t.Helper()
				assert.Equal(t, domain.GlassNone, c.GlassCosmetic)
				assert.Equal(t, domain.HousingBent, c.HousingCosmetic)
			},
		},
		{
			name: "functional checks padded to subsystem list",
			in: domain.CanonicalInspection{
				PowersOn:         ptr(true),
				FunctionalChecks: []*bool{ptr(true), ptr(false)},
			},
			check: func(t *testing.T, c domain.CanonicalInspection) {
				t.Helper()
				require.Len(t, c.FunctionalChecks, len(domain.Subsystems))
				assert.False(t, *c.FunctionalChecks[1])
				assert.Nil(t, c.FunctionalChecks[2])
				assert.Equal(t, domain.FunctionalFaults, c.Functional)
			},
		},
		{
			name: "power off and cracked glass",
			in: domain.CanonicalInspection{
				PowersOn:      ptr(false),
				GlassCosmetic: domain.GlassCrack,
			},
			check: func(t *testing.T, c domain.CanonicalInspection) {
				t.Helper()
				assert.Equal(t, domain.FunctionalNoPower, c.Functional)
				assert.Equal(t, domain.PhysicalDamaged, c.Physical)
			},
		},
		{
			name: "out of range numbers dropped",
			in: domain.CanonicalInspection{
				BatteryHealthPct: ptr(140.0),
				BatteryCycles:    ptr(-4),
			},
			check: func(t *testing.T, c domain.CanonicalInspection) {
				t.Helper()
				assert.Nil(t, c.BatteryHealthPct)
				assert.Nil(t, c.BatteryCycles)
			},
		},
		{
			name: "screen defect and flags agree",
			in: domain.CanonicalInspection{
				DeadPixels: true,
			},
			check: func(t *testing.T, c domain.CanonicalInspection) {
				t.Helper()
				assert.Equal(t, domain.ScreenDefectDeadPixels, c.ScreenImageDefect)
				assert.True(t, c.DeadPixels)
			},
		},
		{
			name: "empty screen defect is none",
			in:   domain.CanonicalInspection{},
			check: func(t *testing.T, c domain.CanonicalInspection) {
				t.Helper()
				assert.Equal(t, domain.ScreenDefectNone, c.ScreenImageDefect)
				assert.Equal(t, domain.PhysicalPerfect, c.Physical)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, Canonicalize(&tt.in))
		})
	}
}

func TestCanonicalize_MatchesNormalize(t *testing.T) {
	t.Parallel()

	c := Normalize(&Selections{
		PowersOn:     "yes",
		BatteryPct:   "82%",
		ScreenIssues: []string{"spots", "lines"},
		GlassTier:    "chip",
		SidesTier:    "algunos",
		BackTier:     "minimos",
	})
	assert.Equal(t, c, Canonicalize(&c))
}
