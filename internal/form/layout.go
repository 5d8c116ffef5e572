package form

import (
	"errors"

	"haber_bosch_console/internal/models"
)

var errBadSides = errors.New("layout needs 1 or 2 sides")

// DefaultPlotOptions are the plot_type options of the stock markup.
var DefaultPlotOptions = []string{"cbt", "toy"}

// Layout describes the markup the controller is wired against.
type Layout struct {
	Sides     int               // 1: baseline only, 2: baseline + alt
	MaxBeds   int               // bed panels per side
	Catalysts []models.Catalyst // catalyst selector options
	Axis      models.AxisRanges // bounds of the manual axis controls

	// PlotOptions lists the plot_type options; DefaultPlotOptions when empty.
	PlotOptions []string
}

// Sides lists the sides a layout with n sides carries.
func Sides(n int) []models.Side {
	if n >= 2 {
		return []models.Side{models.Baseline, models.Alt}
	}
	return []models.Side{models.Baseline}
}

// Build creates every control, label and block of the layout. Numeric side
// controls start unbounded; the controller applies catalyst ranges later.
func Build(l Layout) (*Form, error) {
	if l.Sides != 1 && l.Sides != 2 {
		return nil, errBadSides
	}
	f := New()

	plots := l.PlotOptions
	if len(plots) == 0 {
		plots = DefaultPlotOptions
	}
	f.Add(NewSelect(PlotTypeID, plots...))
	f.Add(NewCheckbox(ManualAxesID, false))
	f.AddElement(AxisSectionID, true)
	if l.Sides == 2 {
		f.Add(NewCheckbox(DiffToolID, false))
		f.AddElement(AltSectionID, true)
	}
	f.AddDisplay(StatusID, "")
	f.AddDisplay(CoordID, "")

	options := make([]string, 0, len(l.Catalysts))
	for _, c := range l.Catalysts {
		options = append(options, string(c))
	}

	for _, side := range Sides(l.Sides) {
		f.Add(NewSelect(CatalystID(side), options...))
		if err := addMirrored(f, NewRange(PressureID(side), models.RangeSpec{Step: 1}), 1); err != nil {
			return nil, err
		}
		if err := addMirrored(f, NewRange(BedCountID(side), models.RangeSpec{Step: 1}), 1); err != nil {
			return nil, err
		}
		for bed := 1; bed <= l.MaxBeds; bed++ {
			f.AddElement(BedPanelID(side, bed), false)
			if err := addMirrored(f, NewRange(BedStartTempID(side, bed), models.RangeSpec{Step: 1}), 1); err != nil {
				return nil, err
			}
			if err := addMirrored(f, NewRange(BedSlopeTempID(side, bed), SlopeRange), 1); err != nil {
				return nil, err
			}
		}
	}

	axis := []struct {
		id string
		r  models.ScaledRange
	}{
		{LengthMaxID, l.Axis.Length},
		{ConcentrationMaxID, l.Axis.Concentration},
		{MinTempID, l.Axis.MinTemp},
		{MaxTempID, l.Axis.MaxTemp},
	}
	for _, a := range axis {
		if err := addMirrored(f, NewRange(a.id, a.r.RangeSpec), a.r.Factor); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func addMirrored(f *Form, c *Control, scale float64) error {
	f.Add(c)
	f.AddDisplay(DisplayID(c.ID), FormatNumber(c.Value*scale))
	return f.AddMirror(Mirror{Source: c.ID, Display: DisplayID(c.ID), Scale: scale})
}
