package valuation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func readyInspection() *domain.CanonicalInspection {
	return &domain.CanonicalInspection{
		SecurityOK:        true,
		PowersOn:          ptr(true),
		ChargesByCable:    ptr(true),
		BatteryHealthPct:  ptr(91.0),
		FunctionalChecks:  make([]*bool, len(domain.Subsystems)),
		ScreenImageDefect: domain.ScreenDefectDeadPixels,
		GlassCosmetic:     domain.GlassMicro,
		HousingCosmetic:   domain.HousingMinimal,
	}
}

func TestDisplayStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   domain.ScreenImageDefect
		want string
	}{
		{domain.ScreenDefectNone, DisplayOK},
		{domain.ScreenDefectSpots, DisplayPix},
		{domain.ScreenDefectDeadPixels, DisplayPix},
		{domain.ScreenDefectLinesOrBurn, DisplayLines},
		{"", DisplayOK},
		{"unknown", DisplayOK},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayStatus(tt.in), string(tt.in))
	}
}

func TestCosmeticPassthrough(t *testing.T) {
	t.Parallel()

	for _, g := range domain.GlassStatuses {
		assert.Equal(t, g, GlassStatus(g))
	}
	for _, h := range domain.HousingStatuses {
		assert.Equal(t, h, HousingStatus(h))
	}
	assert.Equal(t, domain.GlassNone, GlassStatus("SHATTERED"))
	assert.Equal(t, domain.HousingPristine, HousingStatus(""))
}

func TestFunctionalBasicOK(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FunctionalBasicOK(nil))
	assert.Nil(t, FunctionalBasicOK([]*bool{nil, nil}))
	assert.Equal(t, ptr(true), FunctionalBasicOK([]*bool{nil, ptr(true)}))
	assert.Equal(t, ptr(false), FunctionalBasicOK([]*bool{ptr(true), ptr(false), nil}))
}

func TestReady(t *testing.T) {
	t.Parallel()

	phone := domain.DeviceIdentity{Type: domain.DevicePhone}
	desktop := domain.DeviceIdentity{Type: domain.DeviceDesktop}

	c := readyInspection()
	assert.True(t, Ready(phone, c))

	c.ChargesByCable = nil
	assert.False(t, Ready(phone, c), "battery devices need the charge answer")
	assert.True(t, Ready(desktop, c))

	c.PowersOn = nil
	assert.False(t, Ready(desktop, c))
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	id := domain.DeviceIdentity{
		ModelID:      ptr(42),
		ModelName:    "iPhone 13",
		CapacityText: "128 GB",
		DeviceID:     ptr(7),
		Type:         domain.DevicePhone,
	}

	req, err := BuildRequest("acme", domain.ChannelB2C, id, readyInspection())
	require.NoError(t, err)

	b, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(b, &wire))

	assert.Equal(t, "acme", wire["tenant"])
	assert.Equal(t, "B2C", wire["canal"])
	assert.InDelta(t, 42.0, wire["modelo_id"], 0.001)
	assert.NotContains(t, wire, "modelo_nombre", "numeric id wins over the name")
	assert.Equal(t, "128 GB", wire["capacidad_texto"])
	assert.InDelta(t, 7.0, wire["dispositivo_id"], 0.001)
	assert.Equal(t, true, wire["enciende"])
	assert.Equal(t, true, wire["carga"])
	assert.NotContains(t, wire, "carga_inalambrica")
	assert.Contains(t, wire, "funcional_basico_ok")
	assert.Nil(t, wire["funcional_basico_ok"])
	assert.InDelta(t, 91.0, wire["battery_health_pct"], 0.001)
	assert.Equal(t, "PIX", wire["display_image_status"])
	assert.Equal(t, "MICRO", wire["glass_status"])
	assert.Equal(t, "MINIMOS", wire["housing_status"])
}

func TestBuildRequest_Disabled(t *testing.T) {
	t.Parallel()

	id := domain.DeviceIdentity{ModelName: "Galaxy S21", Type: domain.DevicePhone}

	c := readyInspection()
	c.SecurityOK = false
	_, err := BuildRequest("acme", domain.ChannelB2B, id, c)
	require.ErrorIs(t, err, ErrSecurityGated)

	_, err = BuildRequest("acme", domain.ChannelB2B, domain.DeviceIdentity{Type: domain.DevicePhone}, readyInspection())
	require.ErrorIs(t, err, ErrNoIdentity)

	c = readyInspection()
	c.PowersOn = nil
	_, err = BuildRequest("acme", domain.ChannelB2B, id, c)
	require.ErrorIs(t, err, ErrNotReady)
}

func TestRequestKey(t *testing.T) {
	t.Parallel()

	id := domain.DeviceIdentity{ModelID: ptr(1), CapacityID: ptr(2), Type: domain.DevicePhone}

	a, err := BuildRequest("acme", domain.ChannelB2B, id, readyInspection())
	require.NoError(t, err)
	b, err := BuildRequest("acme", domain.ChannelB2B, id, readyInspection())
	require.NoError(t, err)
	assert.Equal(t, a.Key(), b.Key(), "same inputs produce the same key")

	changed := readyInspection()
	changed.BatteryHealthPct = ptr(90.0)
	c, err := BuildRequest("acme", domain.ChannelB2B, id, changed)
	require.NoError(t, err)
	assert.NotEqual(t, a.Key(), c.Key())

	d, err := BuildRequest("acme", domain.ChannelB2C, id, readyInspection())
	require.NoError(t, err)
	assert.NotEqual(t, a.Key(), d.Key())
}

func TestResponseRemote(t *testing.T) {
	t.Parallel()

	body := `{
		"gate": " OK ",
		"grado_estetico": "B",
		"V_Aplus": 500, "V_A": 450, "V_B": 380, "V_C": 0,
		"V_tope": 520,
		"deducciones": {"pr_bat": 25, "pr_pant": 0, "pr_chas": 35, "pp_func": 10},
		"params": {"V_suelo": 40, "v_suelo_regla": {"label": "min_b2c"}, "pr_bateria": 60, "pr_pantalla": 120, "pr_chasis": 80},
		"calculo": {"aplica_pp_func": true},
		"oferta": 310
	}`

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.Calculation.AppliesFunctionalPenalty)
	assert.InDelta(t, 10.0, resp.Deductions.Functional, 0.001)

	r := resp.Remote()
	assert.Equal(t, "OK", r.Gate)
	assert.Equal(t, domain.GradeB, r.Grade(domain.GradeA))
	assert.Equal(t, map[string]float64{"A+": 500, "A": 450, "B": 380}, r.TierPrices)
	assert.Equal(t, domain.Deductions{Battery: 25, Chassis: 35}, r.Deductions)
	assert.InDelta(t, 40.0, r.Floor, 0.001)
	assert.Equal(t, "min_b2c", r.FloorRule)
	assert.InDelta(t, 310.0, r.Offer, 0.001)

	var nilResp *Response
	assert.Nil(t, nilResp.Remote())
	assert.Nil(t, (&Response{Offer: 100}).Remote(), "no gate, no remote data")
}
