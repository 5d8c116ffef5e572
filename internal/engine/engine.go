// Package engine defines the boundary to the simulation and rendering
// engine. The controller only ever talks to these interfaces.
package engine

import (
	"errors"

	"haber_bosch_console/internal/models"
)

// ErrNoEngine is returned when setup is attempted without bindings.
var ErrNoEngine = errors.New("engine bindings are required")

// ChartHandle converts canvas pixels of a rendered chart to data space.
// Pixels outside the plotted domain yield None.
type ChartHandle interface {
	Coordinate(x, y int) models.Optional[models.Point]
}

// Engine simulates and draws scenarios.
type Engine interface {
	// RangeFor returns the control bounds for a catalyst.
	RangeFor(c models.Catalyst) (models.RangeCatalogEntry, error)
	// Render simulates req and draws kind onto the canvas canvasID.
	Render(kind models.PlotKind, canvasID string, req models.SimulationRequest) (ChartHandle, error)
}

// Resizer is implemented by engines that draw onto canvases of variable
// backing size. The controller calls it before re-rendering after a resize.
type Resizer interface {
	Resize(canvasID string, width, height int) error
}

// Bindings is what the bootstrap code injects before the controller runs.
type Bindings struct {
	Engine Engine
}

// Validate reports missing bindings.
func (b Bindings) Validate() error {
	if b.Engine == nil {
		return ErrNoEngine
	}
	return nil
}
