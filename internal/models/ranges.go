package models

import (
	"errors"
	"fmt"
)

var (
	errNonPositiveStep = errors.New("step must be > 0")
	errDefaultOutside  = errors.New("default must lie within [min, max]")
)

// RangeSpec bounds one numeric form control.
type RangeSpec struct {
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Default float64 `json:"default" yaml:"default"`
	Step    float64 `json:"step" yaml:"step"`
}

// Validate checks min <= default <= max and step > 0.
func (r RangeSpec) Validate() error {
	if r.Step <= 0 {
		return errNonPositiveStep
	}
	if !r.Contains(r.Default) {
		return fmt.Errorf("%w: min=%g default=%g max=%g", errDefaultOutside, r.Min, r.Default, r.Max)
	}
	return nil
}

// Contains reports whether v lies within [Min, Max].
func (r RangeSpec) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// WithDefault returns a copy of r with another default value.
func (r RangeSpec) WithDefault(def float64) RangeSpec {
	r.Default = def
	return r
}

// ScaledRange is a RangeSpec whose raw control units are multiplied by
// Factor before they reach the engine.
type ScaledRange struct {
	RangeSpec `yaml:",inline"`
	Factor    float64 `json:"factor" yaml:"factor"`
}

// AxisRanges bounds the four manual axis controls.
type AxisRanges struct {
	Length        ScaledRange `json:"length" yaml:"length"`
	Concentration ScaledRange `json:"concentration" yaml:"concentration"`
	MinTemp       ScaledRange `json:"min_temp" yaml:"min_temp"`
	MaxTemp       ScaledRange `json:"max_temp" yaml:"max_temp"`
}

// RangeCatalogEntry holds every control bound derived from one catalyst.
// BedStartTemps has one entry per possible bed, i.e. len == BedCount.Max.
type RangeCatalogEntry struct {
	Catalyst      Catalyst    `json:"catalyst" yaml:"catalyst"`
	Pressure      RangeSpec   `json:"pressure" yaml:"pressure"`
	BedCount      RangeSpec   `json:"bed_count" yaml:"bed_count"`
	BedStartTemps []RangeSpec `json:"bed_start_temps" yaml:"bed_start_temps"`
	Axis          AxisRanges  `json:"axis" yaml:"axis"`
}

// MaxBeds is the number of bed panels the entry describes.
func (e RangeCatalogEntry) MaxBeds() int {
	return int(e.BedCount.Max)
}

// Validate checks every contained range and the bed list length.
func (e RangeCatalogEntry) Validate() error {
	if err := e.Pressure.Validate(); err != nil {
		return fmt.Errorf("pressure: %w", err)
	}
	if err := e.BedCount.Validate(); err != nil {
		return fmt.Errorf("bed count: %w", err)
	}
	if len(e.BedStartTemps) != e.MaxBeds() {
		return fmt.Errorf("bed start temps: have %d ranges, want %d", len(e.BedStartTemps), e.MaxBeds())
	}
	for i, r := range e.BedStartTemps {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("bed %d start temp: %w", i+1, err)
		}
	}
	return nil
}

// Clone returns a deep copy so cached entries are never shared mutably.
func (e RangeCatalogEntry) Clone() RangeCatalogEntry {
	out := e
	out.BedStartTemps = append([]RangeSpec(nil), e.BedStartTemps...)
	return out
}
