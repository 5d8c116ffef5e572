package models

import (
	"fmt"
	"strings"
)

// Catalyst identifies one of the supported catalyst case studies.
type Catalyst string

const (
	CatalystKMIR Catalyst = "KMIR"
	CatalystFN   Catalyst = "FN"
)

// ParseCatalyst normalizes user input ("kmir", " FN ") to a Catalyst.
// It does not check membership; the catalog does.
func ParseCatalyst(s string) Catalyst {
	return Catalyst(strings.ToUpper(strings.TrimSpace(s)))
}

// Side selects one half of the form.
type Side int

const (
	Baseline Side = iota
	Alt
)

// Suffix is the control id suffix used by the side's markup.
func (s Side) Suffix() string {
	if s == Alt {
		return "_rhs"
	}
	return "_lhs"
}

func (s Side) String() string {
	if s == Alt {
		return "alt"
	}
	return "baseline"
}

// CelsiusToKelvin is the offset applied when reading temperature controls.
const CelsiusToKelvin = 273.0

// BedConfig is one reactor bed of one scenario. StartTemp is in Kelvin.
type BedConfig struct {
	Index     int      `json:"index"`
	Catalyst  Catalyst `json:"catalyst"`
	StartTemp float64  `json:"start_temp_k"`
	SlopeTemp float64  `json:"slope_temp"`
}

// ScenarioConfig is one full side of the form.
type ScenarioConfig struct {
	Catalyst Catalyst    `json:"catalyst"`
	Pressure float64     `json:"pressure"`
	BedCount int         `json:"bed_count"`
	Beds     []BedConfig `json:"beds"`
}

// Validate checks the structural invariants of an assembled scenario.
func (s ScenarioConfig) Validate() error {
	if len(s.Beds) != s.BedCount {
		return fmt.Errorf("scenario %s: %d beds assembled for bed count %d", s.Catalyst, len(s.Beds), s.BedCount)
	}
	for i, b := range s.Beds {
		if b.Index != i {
			return fmt.Errorf("scenario %s: bed at position %d has index %d", s.Catalyst, i, b.Index)
		}
	}
	return nil
}

// Axis control unit factors.
const (
	LengthFactor        = 0.1
	ConcentrationFactor = 0.01
)

// AxisSettings overrides the plot axes. Absent means auto-compute.
type AxisSettings struct {
	LengthMax        float64 `json:"length_max"`
	ConcentrationMax float64 `json:"concentration_max"`
	MinTemp          float64 `json:"min_temp"`
	MaxTemp          float64 `json:"max_temp"`
}

// SimulationRequest is the one-shot value handed to the engine.
type SimulationRequest struct {
	Baseline     ScenarioConfig           `json:"baseline"`
	Alt          Optional[ScenarioConfig] `json:"alt"`
	AxisSettings Optional[AxisSettings]   `json:"axis_settings"`
}

// Scenarios returns the baseline followed by the alt scenario if present.
func (r SimulationRequest) Scenarios() []ScenarioConfig {
	out := []ScenarioConfig{r.Baseline}
	if alt, ok := r.Alt.Get(); ok {
		out = append(out, alt)
	}
	return out
}
