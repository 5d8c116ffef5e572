package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"haber_bosch_console/internal/form"
)

// EventType names a browser event forwarded to the controller.
type EventType string

const (
	EventInput     EventType = "input"
	EventChange    EventType = "change"
	EventToggle    EventType = "toggle"
	EventResize    EventType = "resize"
	EventMouseMove EventType = "mousemove"
	EventRefresh   EventType = "refresh"
)

var ErrUnknownEvent = errors.New("unknown event type")

// Event is one browser event. Which fields matter depends on Type:
// input/change use Control and Value, toggle uses Control as the section id,
// resize uses Width and Height, mousemove uses the offsets and the displayed
// canvas size.
type Event struct {
	Type    EventType `json:"type"`
	Control string    `json:"control,omitempty"`
	Value   string    `json:"value,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	OffsetX         float64 `json:"offset_x,omitempty"`
	OffsetY         float64 `json:"offset_y,omitempty"`
	DisplayedWidth  float64 `json:"displayed_width,omitempty"`
	DisplayedHeight float64 `json:"displayed_height,omitempty"`
}

// CanvasInfo describes the backing canvas the engine draws onto.
type CanvasInfo struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Snapshot is everything the browser needs to redraw the page.
type Snapshot struct {
	Ready bool `json:"ready"`
	form.Snapshot
	Status string     `json:"status"`
	Coord  string     `json:"coord"`
	Alert  string     `json:"alert,omitempty"`
	Canvas CanvasInfo `json:"canvas"`
}

// Snapshot copies the current page state.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Ready:  c.ready,
		Alert:  c.alert,
		Canvas: CanvasInfo{ID: c.opts.CanvasID, Width: c.canvasW, Height: c.canvasH},
	}
	if c.form == nil {
		return s
	}
	s.Snapshot = c.form.Snapshot()
	s.Status = s.Displays[form.StatusID]
	s.Coord = s.Displays[form.CoordID]
	return s
}

// Handle routes one event. Control ids named by the client that the form
// does not have are rejected as invalid values; wiring errors behind a known
// control are recorded in the alert.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	if !c.ready {
		return ErrNotReady
	}
	var err error
	switch ev.Type {
	case EventInput, EventChange:
		if _, lerr := c.form.Control(ev.Control); lerr != nil {
			return fmt.Errorf("%w: unknown control %q", form.ErrInvalidValue, ev.Control)
		}
		if ev.Type == EventInput {
			err = c.OnInput(ev.Control, ev.Value)
		} else {
			err = c.OnChange(ctx, ev.Control, ev.Value)
		}
	case EventToggle:
		err = c.toggle(ctx, ev.Control)
	case EventResize:
		err = c.Resize(ctx, ev.Width, ev.Height)
	case EventMouseMove:
		c.QueryCoordinate(ev.OffsetX, ev.OffsetY, ev.DisplayedWidth, ev.DisplayedHeight)
	case EventRefresh:
		err = c.RefreshPlot(ctx)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownEvent, ev.Type)
	}
	return c.fail(err)
}

// toggle handles a toggle event naming either an optional block or its
// checkbox. It goes through the checkbox so the block and the box never
// disagree, and refreshes like a checkbox change does.
func (c *Controller) toggle(ctx context.Context, id string) error {
	toggleID := id
	if t, ok := form.ToggleForSection(id); ok {
		toggleID = t
	} else if _, ok := form.SectionForToggle(id); !ok {
		return fmt.Errorf("%w: unknown section %q", form.ErrInvalidValue, id)
	}
	box, err := c.form.Control(toggleID)
	if err != nil {
		return fmt.Errorf("%w: unknown section %q", form.ErrInvalidValue, id)
	}
	return c.OnChange(ctx, toggleID, strconv.FormatBool(!box.Checked))
}
