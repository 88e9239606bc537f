package valuation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// Ready reports whether the inspection has the inputs a remote valuation
// needs: power-on answered, and charging answered for battery devices.
func Ready(id domain.DeviceIdentity, c *domain.CanonicalInspection) bool {
	if c.PowersOn == nil {
		return false
	}
	if id.Type.HasBattery() && c.ChargesByCable == nil {
		return false
	}
	return true
}

// BuildRequest maps an inspection and identity onto the outbound payload.
func BuildRequest(
	tenant string,
	channel domain.Channel,
	id domain.DeviceIdentity,
	c *domain.CanonicalInspection,
) (Request, error) {
	if !c.SecurityOK {
		return Request{}, ErrSecurityGated
	}
	if !id.Resolvable() {
		return Request{}, ErrNoIdentity
	}
	if !Ready(id, c) {
		return Request{}, ErrNotReady
	}

	req := Request{
		Tenant:            tenant,
		Channel:           channel,
		ModelID:           id.ModelID,
		CapacityID:        id.CapacityID,
		DeviceID:          id.DeviceID,
		PowersOn:          c.PowersOn,
		Charges:           c.ChargesByCable,
		ChargesWireless:   c.ChargesWireless,
		FunctionalBasicOK: FunctionalBasicOK(c.FunctionalChecks),
		BatteryHealthPct:  c.BatteryHealthPct,
		DisplayStatus:     DisplayStatus(c.ScreenImageDefect),
		GlassStatus:       GlassStatus(c.GlassCosmetic),
		HousingStatus:     HousingStatus(c.HousingCosmetic),
	}
	if id.ModelID == nil {
		req.ModelName = id.ModelName
	}
	if id.CapacityID == nil {
		req.CapacityText = id.CapacityText
	}
	return req, nil
}

// Key identifies a request by its full field tuple. Any change to any
// payload field produces a different key.
func (r Request) Key() string {
	// Marshal cannot fail: every field is a plain value or pointer to one.
	b, _ := json.Marshal(r)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
