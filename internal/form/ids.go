package form

import (
	"fmt"

	"haber_bosch_console/internal/models"
)

// Fixed element ids.
const (
	PlotTypeID   = "plot_type"
	DiffToolID   = "diff_tool"
	ManualAxesID = "manual_axes"

	LengthMaxID        = "x_max"
	ConcentrationMaxID = "c_max"
	MinTempID          = "t_min"
	MaxTempID          = "t_max"

	AltSectionID  = "alternative_scenario_control"
	AxisSectionID = "range_control"

	StatusID = "status"
	CoordID  = "coord"
)

const readonlySuffix = "_ro"

func CatalystID(s models.Side) string { return "catalyst" + s.Suffix() }
func PressureID(s models.Side) string { return "pressure" + s.Suffix() }
func BedCountID(s models.Side) string { return "num_beds" + s.Suffix() }

// BedPanelID addresses bed panels by fixed 1-based position.
func BedPanelID(s models.Side, bed int) string {
	return fmt.Sprintf("bed%d%s", bed, s.Suffix())
}

func BedStartTempID(s models.Side, bed int) string {
	return fmt.Sprintf("bed%02d_start_temp%s", bed, s.Suffix())
}

func BedSlopeTempID(s models.Side, bed int) string {
	return fmt.Sprintf("bed%02d_slope_temp%s", bed, s.Suffix())
}

// DisplayID is the read-only label paired with a control.
func DisplayID(controlID string) string {
	return controlID + readonlySuffix
}

// ToggleForSection maps a block to the checkbox that shows it.
func ToggleForSection(sectionID string) (string, bool) {
	switch sectionID {
	case AltSectionID:
		return DiffToolID, true
	case AxisSectionID:
		return ManualAxesID, true
	}
	return "", false
}

// SectionForToggle maps a toggle checkbox to the block it shows.
func SectionForToggle(toggleID string) (string, bool) {
	switch toggleID {
	case DiffToolID:
		return AltSectionID, true
	case ManualAxesID:
		return AxisSectionID, true
	}
	return "", false
}
