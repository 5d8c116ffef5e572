package form

import (
	"errors"
	"fmt"
	"sort"

	"haber_bosch_console/internal/models"
)

// ErrMissingControl means the controller asked for an element the layout
// does not have. It is a wiring bug, never a user error.
var ErrMissingControl = errors.New("missing control")

// SlopeRange bounds the per-bed slope temperature controls. The KMIR and FN
// case studies run every bed with a slope of 20.
var SlopeRange = models.RangeSpec{Min: 1, Max: 50, Default: 20, Step: 0.5}

// Mirror projects a control value, multiplied by Scale, into a read-only
// label. It is recomputed on every event and never read back.
type Mirror struct {
	Source  string  `json:"source"`
	Display string  `json:"display"`
	Scale   float64 `json:"scale"`
}

// Form is the in-memory element tree: controls, read-only labels and
// element visibility.
type Form struct {
	controls map[string]*Control
	displays map[string]string
	hidden   map[string]bool
	mirrors  map[string]Mirror
}

// New returns an empty form.
func New() *Form {
	return &Form{
		controls: make(map[string]*Control),
		displays: make(map[string]string),
		hidden:   make(map[string]bool),
		mirrors:  make(map[string]Mirror),
	}
}

// Add registers a control.
func (f *Form) Add(c *Control) {
	f.controls[c.ID] = c
}

// AddDisplay registers a read-only label.
func (f *Form) AddDisplay(id, text string) {
	f.displays[id] = text
}

// AddElement registers a show/hide-able block.
func (f *Form) AddElement(id string, hidden bool) {
	f.hidden[id] = hidden
}

// AddMirror registers a control->label projection. Both ends must exist.
func (f *Form) AddMirror(m Mirror) error {
	if _, err := f.Control(m.Source); err != nil {
		return err
	}
	if _, ok := f.displays[m.Display]; !ok {
		return fmt.Errorf("%w %s", ErrMissingControl, m.Display)
	}
	if m.Scale == 0 {
		m.Scale = 1
	}
	f.mirrors[m.Source] = m
	return nil
}

// Control looks up a control by id.
func (f *Form) Control(id string) (*Control, error) {
	c, ok := f.controls[id]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingControl, id)
	}
	return c, nil
}

// MirrorFor returns the projection registered for a control.
func (f *Form) MirrorFor(controlID string) (Mirror, bool) {
	m, ok := f.mirrors[controlID]
	return m, ok
}

// RenderMirror writes source value * scale into the label.
func (f *Form) RenderMirror(m Mirror) error {
	c, err := f.Control(m.Source)
	if err != nil {
		return err
	}
	return f.SetDisplay(m.Display, FormatNumber(c.Value*m.Scale))
}

// SetDisplay replaces a label text.
func (f *Form) SetDisplay(id, text string) error {
	if _, ok := f.displays[id]; !ok {
		return fmt.Errorf("%w %s", ErrMissingControl, id)
	}
	f.displays[id] = text
	return nil
}

// Display returns a label text.
func (f *Form) Display(id string) (string, error) {
	t, ok := f.displays[id]
	if !ok {
		return "", fmt.Errorf("%w %s", ErrMissingControl, id)
	}
	return t, nil
}

// SetHidden shows or hides an element.
func (f *Form) SetHidden(id string, hidden bool) error {
	if _, ok := f.hidden[id]; !ok {
		return fmt.Errorf("%w %s", ErrMissingControl, id)
	}
	f.hidden[id] = hidden
	return nil
}

// Hidden reports whether an element is hidden.
func (f *Form) Hidden(id string) (bool, error) {
	h, ok := f.hidden[id]
	if !ok {
		return false, fmt.Errorf("%w %s", ErrMissingControl, id)
	}
	return h, nil
}

// Snapshot is the serializable view the browser redraws itself from.
type Snapshot struct {
	Controls []Control         `json:"controls"`
	Displays map[string]string `json:"displays"`
	Hidden   map[string]bool   `json:"hidden"`
}

// Snapshot copies the current form state.
func (f *Form) Snapshot() Snapshot {
	s := Snapshot{
		Controls: make([]Control, 0, len(f.controls)),
		Displays: make(map[string]string, len(f.displays)),
		Hidden:   make(map[string]bool, len(f.hidden)),
	}
	for _, c := range f.controls {
		cp := *c
		cp.Options = append([]string(nil), c.Options...)
		s.Controls = append(s.Controls, cp)
	}
	sort.Slice(s.Controls, func(i, j int) bool { return s.Controls[i].ID < s.Controls[j].ID })
	for k, v := range f.displays {
		s.Displays[k] = v
	}
	for k, v := range f.hidden {
		s.Hidden[k] = v
	}
	return s
}
