package valuation

import (
	domain "github.com/donaldgifford/device-grader/pkg/types"
)

// Display image statuses understood by the pricing service.
const (
	DisplayOK    = "OK"
	DisplayPix   = "PIX"
	DisplayLines = "LINES"
)

// DisplayStatus maps a screen image defect onto the service enumeration.
func DisplayStatus(d domain.ScreenImageDefect) string {
	switch d {
	case domain.ScreenDefectLinesOrBurn:
		return DisplayLines
	case domain.ScreenDefectSpots, domain.ScreenDefectDeadPixels:
		return DisplayPix
	case domain.ScreenDefectNone:
		return DisplayOK
	default:
		return DisplayOK
	}
}

// GlassStatus maps the glass rating onto the service enumeration.
func GlassStatus(g domain.GlassStatus) domain.GlassStatus {
	switch g {
	case domain.GlassNone, domain.GlassMicro, domain.GlassVisible,
		domain.GlassChip, domain.GlassDeep, domain.GlassCrack:
		return g
	default:
		return domain.GlassNone
	}
}

// HousingStatus maps the housing rating onto the service enumeration.
func HousingStatus(h domain.HousingStatus) domain.HousingStatus {
	switch h {
	case domain.HousingPristine, domain.HousingMinimal, domain.HousingSome,
		domain.HousingWorn, domain.HousingBent:
		return h
	default:
		return domain.HousingPristine
	}
}

// FunctionalBasicOK collapses the functional checks into one tri-state:
// false if any check failed, true if at least one passed and none failed,
// nil when nothing was tested.
func FunctionalBasicOK(checks []*bool) *bool {
	tested := false
	for _, v := range checks {
		if v == nil {
			continue
		}
		if !*v {
			f := false
			return &f
		}
		tested = true
	}
	if !tested {
		return nil
	}
	t := true
	return &t
}
