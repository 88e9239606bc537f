// Package valuation talks to the remote pricing service: it builds the
// outbound payload from a canonical inspection, resolves the device
// identity, and fetches, caches and debounces valuation responses.
package valuation

import (
	"context"
	"errors"
	"strings"

	"github.com/donaldgifford/device-grader/pkg/pricing"
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

var (
	// ErrSecurityGated is returned when a payload is requested for a
	// security-rejected device. No remote call is ever made for one.
	ErrSecurityGated = errors.New("device failed the security gate")

	// ErrNoIdentity is returned when neither a numeric nor a name-based
	// identity is available.
	ErrNoIdentity = errors.New("device identity cannot be resolved")

	// ErrNotReady is returned while the minimum inputs are still unanswered.
	ErrNotReady = errors.New("required inspection inputs missing")

	// ErrMalformedResponse is returned when a 2xx body lacks the gate or
	// the offer.
	ErrMalformedResponse = errors.New("valuation response missing gate or oferta")
)

// Request is the outbound valuation payload.
type Request struct {
	Tenant            string               `json:"tenant"`
	Channel           domain.Channel       `json:"canal"`
	ModelID           *int                 `json:"modelo_id,omitempty"`
	CapacityID        *int                 `json:"capacidad_id,omitempty"`
	ModelName         string               `json:"modelo_nombre,omitempty"`
	CapacityText      string               `json:"capacidad_texto,omitempty"`
	DeviceID          *int                 `json:"dispositivo_id,omitempty"`
	PowersOn          *bool                `json:"enciende"`
	Charges           *bool                `json:"carga"`
	ChargesWireless   *bool                `json:"carga_inalambrica,omitempty"`
	FunctionalBasicOK *bool                `json:"funcional_basico_ok"`
	BatteryHealthPct  *float64             `json:"battery_health_pct"`
	DisplayStatus     string               `json:"display_image_status"`
	GlassStatus       domain.GlassStatus   `json:"glass_status"`
	HousingStatus     domain.HousingStatus `json:"housing_status"`
}

// Response is the inbound valuation returned by the pricing service.
type Response struct {
	Gate          string          `json:"gate"`
	CosmeticGrade string          `json:"grado_estetico"`
	PriceAPlus    float64         `json:"V_Aplus"`
	PriceA        float64         `json:"V_A"`
	PriceB        float64         `json:"V_B"`
	PriceC        float64         `json:"V_C"`
	Ceiling       float64         `json:"V_tope"`
	Deductions    RemoteDeduction `json:"deducciones"`
	Params        Params          `json:"params"`
	Calculation   Calculation     `json:"calculo"`
	Offer         float64         `json:"oferta"`
}

// RemoteDeduction is the deductions block of a response.
type RemoteDeduction struct {
	Battery    float64 `json:"pr_bat"`
	Screen     float64 `json:"pr_pant"`
	Chassis    float64 `json:"pr_chas"`
	Functional float64 `json:"pp_func"`
}

// Params echoes the parameters the service priced with.
type Params struct {
	Floor         float64   `json:"V_suelo"`
	FloorRule     FloorRule `json:"v_suelo_regla"`
	BatteryRepair float64   `json:"pr_bateria"`
	ScreenRepair  float64   `json:"pr_pantalla"`
	ChassisRepair float64   `json:"pr_chasis"`
}

// FloorRule names the rule that produced the floor.
type FloorRule struct {
	Label string `json:"label"`
}

// Calculation carries flags describing how the offer was computed.
type Calculation struct {
	AppliesFunctionalPenalty bool `json:"aplica_pp_func"`
}

// Remote converts the wire response into the figures the price resolver
// consumes. Tier prices of zero are treated as absent. The functional
// penalty is already part of the offer and has no local counterpart. A
// response without a gate carries no usable data.
func (r *Response) Remote() *pricing.Remote {
	if r == nil || strings.TrimSpace(r.Gate) == "" {
		return nil
	}

	tiers := map[string]float64{}
	for key, v := range map[domain.Grade]float64{
		domain.GradeAPlus: r.PriceAPlus,
		domain.GradeA:     r.PriceA,
		domain.GradeB:     r.PriceB,
		domain.GradeC:     r.PriceC,
	} {
		if v > 0 {
			tiers[string(key)] = v
		}
	}

	return &pricing.Remote{
		Gate:          strings.TrimSpace(r.Gate),
		CosmeticGrade: strings.TrimSpace(r.CosmeticGrade),
		TierPrices:    tiers,
		Ceiling:       r.Ceiling,
		Deductions: domain.Deductions{
			Battery: r.Deductions.Battery,
			Screen:  r.Deductions.Screen,
			Chassis: r.Deductions.Chassis,
		},
		Floor:     r.Params.Floor,
		FloorRule: r.Params.FloorRule.Label,
		Offer:     r.Offer,
	}
}

// Source produces valuations. Client and Service implement it.
type Source interface {
	Valuate(ctx context.Context, req Request) (*Response, error)
}
