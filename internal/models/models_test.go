package models

import (
	"encoding/json"
	"testing"
)

func TestOptional_JSON(t *testing.T) {
	req := SimulationRequest{
		Baseline: ScenarioConfig{Catalyst: CatalystKMIR, Pressure: 200, BedCount: 0},
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if string(raw["alt"]) != "null" || string(raw["axis_settings"]) != "null" {
		t.Fatalf("absent fields should encode as null, got alt=%s axis=%s", raw["alt"], raw["axis_settings"])
	}

	req.AxisSettings = Some(AxisSettings{LengthMax: 0.8, ConcentrationMax: 0.08, MinTemp: 400, MaxTemp: 450})
	b, _ = json.Marshal(req)
	var back SimulationRequest
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Alt.IsSome() {
		t.Fatalf("alt should stay absent")
	}
	axis, ok := back.AxisSettings.Get()
	if !ok || axis.MaxTemp != 450 {
		t.Fatalf("axis settings lost: %+v ok=%v", axis, ok)
	}
}

func TestRangeSpec_Validate(t *testing.T) {
	cases := []struct {
		name    string
		r       RangeSpec
		wantErr bool
	}{
		{"ok", RangeSpec{Min: 1, Max: 3, Default: 2, Step: 1}, false},
		{"default_on_bound", RangeSpec{Min: 1, Max: 3, Default: 3, Step: 1}, false},
		{"default_below", RangeSpec{Min: 1, Max: 3, Default: 0, Step: 1}, true},
		{"zero_step", RangeSpec{Min: 1, Max: 3, Default: 2, Step: 0}, true},
		{"default_above", RangeSpec{Min: 1, Max: 3, Default: 3.5, Step: 1}, true},
		{"inverted_bounds", RangeSpec{Min: 3, Max: 1, Default: 2, Step: 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.r.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestScenarioConfig_Validate(t *testing.T) {
	s := ScenarioConfig{Catalyst: CatalystFN, BedCount: 2, Beds: []BedConfig{{Index: 0}, {Index: 1}}}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Beds[1].Index = 5
	if err := s.Validate(); err == nil {
		t.Fatalf("expected index mismatch error")
	}
	s.BedCount = 3
	if err := s.Validate(); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestPlotKindFromSelector(t *testing.T) {
	if k, ok := PlotKindFromSelector("cbt"); !ok || k != PlotConcentrationBalance {
		t.Fatalf("cbt -> %q, %v", k, ok)
	}
	if k, ok := PlotKindFromSelector("temperature-over-yield"); !ok || k != PlotTemperatureOverYield {
		t.Fatalf("full name -> %q, %v", k, ok)
	}
	if _, ok := PlotKindFromSelector("pie"); ok {
		t.Fatalf("unknown selector value accepted")
	}
}

func TestRangeSpec_Contains(t *testing.T) {
	r := RangeSpec{Min: 100, Max: 300, Default: 200, Step: 1}
	for v, want := range map[float64]bool{99.9: false, 100: true, 250: true, 300: true, 300.1: false} {
		if got := r.Contains(v); got != want {
			t.Fatalf("Contains(%v) = %v, want %v", v, got, want)
		}
	}
}
