// Package domain defines the core business types for the device grader.
package domain

import (
	"time"
)

// Grade is the resale grade of a device. Ordered A+ > A > B > C > D > R.
type Grade string

// Grade constants.
const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D" // defective: critical fault, sellable at floor price
	GradeR     Grade = "R" // security-rejected: do not accept
)

var gradeRank = map[Grade]int{
	GradeR:     0,
	GradeD:     1,
	GradeC:     2,
	GradeB:     3,
	GradeA:     4,
	GradeAPlus: 5,
}

// Rank returns the ordinal of g; higher is better. Unknown grades rank -1.
func (g Grade) Rank() int {
	r, ok := gradeRank[g]
	if !ok {
		return -1
	}
	return r
}

// Valid reports whether g is one of the known grades.
func (g Grade) Valid() bool {
	_, ok := gradeRank[g]
	return ok
}

// Cosmetic reports whether g can be produced by the cosmetic table
// (D and R are gate-only).
func (g Grade) Cosmetic() bool {
	return g.Rank() >= GradeC.Rank()
}

// WorseGrade returns the lower of a and b.
func WorseGrade(a, b Grade) Grade {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}

// Legacy maps g onto the legacy 4-tier domain. The mapping is one-way.
func (g Grade) Legacy() LegacyGrade {
	switch g {
	case GradeAPlus, GradeA:
		return LegacyExcellent
	case GradeB:
		return LegacyVeryGood
	case GradeC:
		return LegacyGood
	default:
		return LegacyReview
	}
}

// LegacyGrade is the coarse 4-tier result still used by older price tables.
type LegacyGrade string

// Legacy grade constants.
const (
	LegacyExcellent LegacyGrade = "excelente"
	LegacyVeryGood  LegacyGrade = "muy_bueno"
	LegacyGood      LegacyGrade = "bueno"
	LegacyReview    LegacyGrade = "a_revision"
)

// GlassStatus is the cosmetic condition of the screen glass.
type GlassStatus string

// Glass status constants, in increasing severity.
const (
	GlassNone    GlassStatus = "NONE"
	GlassMicro   GlassStatus = "MICRO"
	GlassVisible GlassStatus = "VISIBLE"
	GlassChip    GlassStatus = "CHIP"
	GlassDeep    GlassStatus = "DEEP"
	GlassCrack   GlassStatus = "CRACK"
)

// GlassStatuses lists every glass status from best to worst.
var GlassStatuses = []GlassStatus{
	GlassNone, GlassMicro, GlassVisible, GlassChip, GlassDeep, GlassCrack,
}

// Severity returns the position of s in GlassStatuses, or -1.
func (s GlassStatus) Severity() int {
	for i, v := range GlassStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// HousingStatus is the cosmetic condition of the sides or back panel.
type HousingStatus string

// Housing status constants, in increasing severity.
const (
	HousingPristine HousingStatus = "SIN_SIGNOS"
	HousingMinimal  HousingStatus = "MINIMOS"
	HousingSome     HousingStatus = "ALGUNOS"
	HousingWorn     HousingStatus = "DESGASTE_VISIBLE"
	HousingBent     HousingStatus = "DOBLADO"
)

// HousingStatuses lists every housing status from best to worst.
var HousingStatuses = []HousingStatus{
	HousingPristine, HousingMinimal, HousingSome, HousingWorn, HousingBent,
}

// Severity returns the position of s in HousingStatuses, or -1.
func (s HousingStatus) Severity() int {
	for i, v := range HousingStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// WorseHousing returns the more severe of a and b.
func WorseHousing(a, b HousingStatus) HousingStatus {
	if a.Severity() >= b.Severity() {
		return a
	}
	return b
}

// Wear maps a housing rating onto the legacy wear scale.
func (s HousingStatus) Wear() WearLevel {
	switch s {
	case HousingMinimal:
		return WearLow
	case HousingSome:
		return WearMedium
	case HousingWorn, HousingBent:
		return WearHigh
	default:
		return WearNone
	}
}

// ScreenImageDefect is the worst functional display defect observed.
type ScreenImageDefect string

// Screen image defect constants, in increasing severity.
const (
	ScreenDefectNone        ScreenImageDefect = "none"
	ScreenDefectSpots       ScreenImageDefect = "spots"
	ScreenDefectDeadPixels  ScreenImageDefect = "deadPixels"
	ScreenDefectLinesOrBurn ScreenImageDefect = "linesOrBurn"
)

// PhysicalState is the legacy single-value physical condition.
type PhysicalState string

// Legacy physical state constants.
const (
	PhysicalPerfect PhysicalState = "perfecto"
	PhysicalGood    PhysicalState = "bueno"
	PhysicalFair    PhysicalState = "regular"
	PhysicalDamaged PhysicalState = "danado"
)

// FunctionalState is the legacy single-value functional condition.
type FunctionalState string

// Legacy functional state constants.
const (
	FunctionalWorks        FunctionalState = "funciona"
	FunctionalNoPower      FunctionalState = "no_enciende"
	FunctionalScreenBroken FunctionalState = "pantalla_rota"
	FunctionalFaults       FunctionalState = "con_fallos"
)

// WearLevel is the legacy wear rating of a single housing surface.
type WearLevel string

// Wear level constants.
const (
	WearNone   WearLevel = "none"
	WearLow    WearLevel = "low"
	WearMedium WearLevel = "medium"
	WearHigh   WearLevel = "high"
)

// Subsystem names one functionally tested component.
type Subsystem string

// Subsystem constants. Order defines the slot order of FunctionalChecks.
const (
	SubsystemTelephony  Subsystem = "telephony"
	SubsystemAudio      Subsystem = "audio"
	SubsystemMic        Subsystem = "microphone"
	SubsystemCameras    Subsystem = "cameras"
	SubsystemBiometrics Subsystem = "biometrics"
	SubsystemWiFi       Subsystem = "wifi"
	SubsystemBluetooth  Subsystem = "bluetooth"
	SubsystemWiredData  Subsystem = "wired_data"
	SubsystemGPS        Subsystem = "gps"
	SubsystemNFC        Subsystem = "nfc"
	SubsystemSensors    Subsystem = "sensors"
	SubsystemHaptics    Subsystem = "haptics"
	SubsystemTouch      Subsystem = "touch"
)

// Subsystems lists the tested subsystems in slot order.
var Subsystems = []Subsystem{
	SubsystemTelephony, SubsystemAudio, SubsystemMic, SubsystemCameras,
	SubsystemBiometrics, SubsystemWiFi, SubsystemBluetooth, SubsystemWiredData,
	SubsystemGPS, SubsystemNFC, SubsystemSensors, SubsystemHaptics, SubsystemTouch,
}

// CanonicalInspection is the normalized snapshot every calculator consumes.
// It is immutable once produced for an evaluation.
type CanonicalInspection struct {
	SecurityOK      bool  `json:"security_ok"`
	PowersOn        *bool `json:"powers_on"`
	ChargesByCable  *bool `json:"charges_by_cable"`
	ChargesWireless *bool `json:"charges_wireless"`

	BatteryHealthPct *float64 `json:"battery_health_pct"`
	BatteryCycles    *int     `json:"battery_cycles"`

	// FunctionalChecks has one slot per entry in Subsystems; nil means untested.
	FunctionalChecks []*bool `json:"functional_checks"`

	ScreenImageDefect ScreenImageDefect `json:"screen_image_defect"`
	BrightSpots       bool              `json:"bright_spots"`
	DeadPixels        bool              `json:"dead_pixels"`

	GlassCosmetic   GlassStatus   `json:"glass_cosmetic"`
	SidesCosmetic   HousingStatus `json:"sides_cosmetic"`
	BackCosmetic    HousingStatus `json:"back_cosmetic"`
	HousingCosmetic HousingStatus `json:"housing_cosmetic"`

	// Legacy single-value states, derived for the legacy scorer.
	Physical   PhysicalState   `json:"physical_state"`
	Functional FunctionalState `json:"functional_state"`
}

// HasFunctionalFailure reports whether any functional check is explicitly false.
func (c *CanonicalInspection) HasFunctionalFailure() bool {
	for _, v := range c.FunctionalChecks {
		if v != nil && !*v {
			return true
		}
	}
	return false
}

// HasScreenIssue reports whether any functional display defect was selected.
func (c *CanonicalInspection) HasScreenIssue() bool {
	return c.ScreenImageDefect != "" && c.ScreenImageDefect != ScreenDefectNone
}

// Deductions holds the monetary value deductions.
type Deductions struct {
	Battery float64 `json:"battery"`
	Screen  float64 `json:"screen"`
	Chassis float64 `json:"chassis"`
}

// Total returns the sum of all deductions.
func (d Deductions) Total() float64 {
	return d.Battery + d.Screen + d.Chassis
}

// DeductionOverride pins individual deductions. A nil field means "use the
// computed value"; any number, including 0, pins the field.
type DeductionOverride struct {
	Battery    *float64 `json:"battery,omitempty"`
	Screen     *float64 `json:"screen,omitempty"`
	Chassis    *float64 `json:"chassis,omitempty"`
	RepairCost float64  `json:"repair_cost"`
}

// Active reports whether any deduction field is pinned.
func (o DeductionOverride) Active() bool {
	return o.Battery != nil || o.Screen != nil || o.Chassis != nil
}

// ResultSource names which path produced a GradeResult.
type ResultSource string

// Result source constants.
const (
	SourceRemote          ResultSource = "remote"
	SourceLocalTable      ResultSource = "localTable"
	SourceLegacyHeuristic ResultSource = "legacyHeuristic"
	SourceManual          ResultSource = "manual"
)

// GradeResult is the outcome of one evaluation.
type GradeResult struct {
	Grade       Grade        `json:"grade"`
	LegacyGrade LegacyGrade  `json:"legacy_grade"`
	Source      ResultSource `json:"source"`
	Reason      string       `json:"reason,omitempty"`
	Deductions  Deductions   `json:"deductions"`
	RepairCost  float64      `json:"repair_cost"`
	BasePrice   *float64     `json:"base_price"`
	FinalPrice  *float64     `json:"final_price"`
	FloorPrice  float64      `json:"floor_price"`
	PriceTier   string       `json:"price_tier,omitempty"`

	// InsufficientData is set when no base price could be found; callers
	// must block submission rather than guess.
	InsufficientData bool `json:"insufficient_data"`
	// NeedsReview flags results where deductions consumed the base price.
	NeedsReview bool `json:"needs_review"`
	// Stale is set while a newer remote valuation is pending.
	Stale bool `json:"stale"`
}

// Channel is the sales channel a price table applies to.
type Channel string

// Channel constants.
const (
	ChannelB2B Channel = "B2B"
	ChannelB2C Channel = "B2C"
)

// DeviceType is the product family of the device under audit.
type DeviceType string

// Device type constants.
const (
	DevicePhone   DeviceType = "phone"
	DeviceTablet  DeviceType = "tablet"
	DeviceLaptop  DeviceType = "laptop"
	DeviceDesktop DeviceType = "desktop"
)

// HasBattery reports whether devices of type t carry a battery.
func (t DeviceType) HasBattery() bool {
	return t != DeviceDesktop
}

// DeviceIdentity identifies the device for price lookups and remote valuation.
type DeviceIdentity struct {
	DeviceID     *int       `json:"device_id,omitempty"`
	ModelID      *int       `json:"model_id,omitempty"`
	CapacityID   *int       `json:"capacity_id,omitempty"`
	ModelName    string     `json:"model_name,omitempty"`
	CapacityText string     `json:"capacity_text,omitempty"`
	Type         DeviceType `json:"type"`
}

// Resolvable reports whether a numeric or name-based identity exists.
func (d DeviceIdentity) Resolvable() bool {
	return d.ModelID != nil || d.ModelName != ""
}

// PriceTable maps grade tier keys to prices for one model/capacity/channel.
// It is read-only for the duration of an audit session.
type PriceTable struct {
	Prices map[string]float64 `json:"prices"`
	Floor  float64            `json:"floor"`
	Raw    map[string]any     `json:"raw,omitempty"`
}

// Price returns the price stored under key.
func (t *PriceTable) Price(key string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.Prices[key]
	return v, ok
}

// CatalogModel is a model/capacity pair known to the catalog, used for
// name-based identity resolution.
type CatalogModel struct {
	ModelID      int    `json:"model_id"      db:"model_id"`
	CapacityID   int    `json:"capacity_id"   db:"capacity_id"`
	ModelName    string `json:"model_name"    db:"model_name"`
	CapacityText string `json:"capacity_text" db:"capacity_text"`
}

// AuditRecord holds the persisted fields of a finished audit.
type AuditRecord struct {
	DeviceID          int                `json:"dispositivo_id"      db:"device_id"`
	EstadoValoracion  LegacyGrade        `json:"estado_valoracion"   db:"estado_valoracion"`
	Grade             Grade              `json:"grado"               db:"grade"`
	PrecioFinal       *float64           `json:"precio_final"        db:"precio_final"`
	PrecioPorEstado   map[string]float64 `json:"precio_por_estado"   db:"precio_por_estado"`
	Observaciones     string             `json:"observaciones"       db:"observaciones"`
	EditadoPorUsuario bool               `json:"editado_por_usuario" db:"editado_por_usuario"`
	UpdatedAt         time.Time          `json:"updated_at"          db:"updated_at"`
}
