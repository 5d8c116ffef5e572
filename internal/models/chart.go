package models

import "time"

// PlotKind selects which physical quantity the engine draws.
type PlotKind string

const (
	PlotConcentrationBalance PlotKind = "concentration-balance"
	PlotTemperatureOverYield PlotKind = "temperature-over-yield"
)

// plotSelectorValues maps plot_type option values to kinds.
var plotSelectorValues = map[string]PlotKind{
	"cbt": PlotConcentrationBalance,
	"toy": PlotTemperatureOverYield,
}

// PlotKindFromSelector resolves a plot_type option value. Full kind names
// are accepted as well.
func PlotKindFromSelector(v string) (PlotKind, bool) {
	if k, ok := plotSelectorValues[v]; ok {
		return k, true
	}
	switch PlotKind(v) {
	case PlotConcentrationBalance, PlotTemperatureOverYield:
		return PlotKind(v), true
	}
	return "", false
}

// Point is a data-space coordinate on a rendered chart.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Run outcomes.
const (
	OutcomeRendered        = "RENDERED"
	OutcomeUnknownPlotKind = "UNKNOWN_PLOT_KIND"
	OutcomeFailed          = "FAILED"
)

// RunRecord is one persisted plot refresh.
type RunRecord struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Kind      string    `json:"kind"`
	ElapsedMs int64     `json:"elapsed_ms"`
	Outcome   string    `json:"outcome"` // RENDERED | UNKNOWN_PLOT_KIND | FAILED
	Sides     int       `json:"sides"`
	Detail    string    `json:"detail,omitempty"`
}
