package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"haber_bosch_console/internal/models"
)

// Kind is the widget type of a control.
type Kind string

const (
	KindRange    Kind = "range"
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
)

var (
	ErrInvalidValue = errors.New("invalid control value")
	errWrongKind    = errors.New("operation does not apply to this control kind")
)

// snapScale trims floating point noise after snapping to a step grid.
const snapScale = 1e9

// Control mirrors one input element. Range controls clamp and snap their
// value the way a browser range input does, so a value outside the
// current bounds can never be stored.
type Control struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value float64 `json:"value"`

	Options  []string `json:"options,omitempty"`
	Selected string   `json:"selected,omitempty"`

	Checked bool `json:"checked,omitempty"`
}

// NewRange builds a range control with the given bounds and value=default.
func NewRange(id string, r models.RangeSpec) *Control {
	c := &Control{ID: id, Kind: KindRange}
	c.SetBounds(r)
	return c
}

// NewSelect builds a select control; the first option is selected.
func NewSelect(id string, options ...string) *Control {
	c := &Control{ID: id, Kind: KindSelect, Options: append([]string(nil), options...)}
	if len(options) > 0 {
		c.Selected = options[0]
	}
	return c
}

// NewCheckbox builds a checkbox control.
func NewCheckbox(id string, checked bool) *Control {
	return &Control{ID: id, Kind: KindCheckbox, Checked: checked}
}

// SetBounds applies min, max and step, then resets the value to the default.
func (c *Control) SetBounds(r models.RangeSpec) {
	c.Min = r.Min
	c.Max = r.Max
	c.Step = r.Step
	c.Set(r.Default)
}

// Set stores v clamped to [Min, Max] and snapped to the step grid anchored
// at Min. It returns the stored value.
func (c *Control) Set(v float64) float64 {
	if c.Step > 0 {
		v = c.Min + math.Round((v-c.Min)/c.Step)*c.Step
		v = math.Round(v*snapScale) / snapScale
	}
	if v < c.Min {
		v = c.Min
	}
	if v > c.Max {
		v = c.Max
	}
	c.Value = v
	return v
}

// Select makes opt the selected option.
func (c *Control) Select(opt string) error {
	if c.Kind != KindSelect {
		return fmt.Errorf("select %s: %w", c.ID, errWrongKind)
	}
	for _, o := range c.Options {
		if o == opt {
			c.Selected = opt
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not an option of %s", ErrInvalidValue, opt, c.ID)
}

// Apply writes a raw string value as it arrives from the browser.
func (c *Control) Apply(raw string) error {
	raw = strings.TrimSpace(raw)
	switch c.Kind {
	case KindRange:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %q for %s", ErrInvalidValue, raw, c.ID)
		}
		c.Set(v)
		return nil
	case KindSelect:
		return c.Select(raw)
	case KindCheckbox:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %q for %s", ErrInvalidValue, raw, c.ID)
		}
		c.Checked = b
		return nil
	default:
		return fmt.Errorf("apply %s: %w", c.ID, errWrongKind)
	}
}

// FormatNumber renders a control value for a read-only label.
func FormatNumber(v float64) string {
	v = math.Round(v*1e6) / 1e6
	return strconv.FormatFloat(v, 'f', -1, 64)
}
