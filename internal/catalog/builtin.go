package catalog

import "haber_bosch_console/internal/models"

// Bed start temperatures of the case studies, °C.
const (
	kmirBed1StartC = 440.0
	kmirBed2StartC = 400.0
	kmirBed3StartC = 380.0

	fnBed1StartC = 370.0
	fnBed2StartC = 350.0
	fnBed3StartC = 330.0
)

var bedCountRange = models.RangeSpec{Min: 1, Max: 3, Default: 2, Step: 1}

// defaultAxisRanges bounds the manual axis controls. They do not depend on
// the catalyst.
var defaultAxisRanges = models.AxisRanges{
	Length: models.ScaledRange{
		RangeSpec: models.RangeSpec{Min: 1, Max: 11, Default: 8, Step: 1},
		Factor:    models.LengthFactor,
	},
	Concentration: models.ScaledRange{
		RangeSpec: models.RangeSpec{Min: 1, Max: 11, Default: 8, Step: 1},
		Factor:    models.ConcentrationFactor,
	},
	MinTemp: models.ScaledRange{
		RangeSpec: models.RangeSpec{Min: 330, Max: 430, Default: 400, Step: 5},
		Factor:    1,
	},
	MaxTemp: models.ScaledRange{
		RangeSpec: models.RangeSpec{Min: 400, Max: 500, Default: 450, Step: 5},
		Factor:    1,
	},
}

func kmirEntry() models.RangeCatalogEntry {
	start := models.RangeSpec{Min: 350, Max: 470, Step: 1}
	return models.RangeCatalogEntry{
		Catalyst: models.CatalystKMIR,
		Pressure: models.RangeSpec{Min: 180, Max: 220, Default: 200, Step: 1},
		BedCount: bedCountRange,
		BedStartTemps: []models.RangeSpec{
			start.WithDefault(kmirBed1StartC),
			start.WithDefault(kmirBed2StartC),
			start.WithDefault(kmirBed3StartC),
		},
		Axis: defaultAxisRanges,
	}
}

func fnEntry() models.RangeCatalogEntry {
	start := models.RangeSpec{Min: 300, Max: 420, Step: 5}
	return models.RangeCatalogEntry{
		Catalyst: models.CatalystFN,
		Pressure: models.RangeSpec{Min: 85, Max: 115, Default: 100, Step: 1},
		BedCount: bedCountRange,
		BedStartTemps: []models.RangeSpec{
			start.WithDefault(fnBed1StartC),
			start.WithDefault(fnBed2StartC),
			start.WithDefault(fnBed3StartC),
		},
		Axis: defaultAxisRanges,
	}
}

// supported lists the closed catalyst set in selector order.
var supported = []models.Catalyst{models.CatalystKMIR, models.CatalystFN}

// Builtin is the static range table of the supported catalysts.
func Builtin(c models.Catalyst) (models.RangeCatalogEntry, error) {
	switch c {
	case models.CatalystKMIR:
		return kmirEntry(), nil
	case models.CatalystFN:
		return fnEntry(), nil
	default:
		return models.RangeCatalogEntry{}, &UnknownCatalystError{Catalyst: c}
	}
}
