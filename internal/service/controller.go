package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"haber_bosch_console/internal/catalog"
	"haber_bosch_console/internal/engine"
	"haber_bosch_console/internal/form"
	"haber_bosch_console/internal/logger"
	"haber_bosch_console/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "haber_bosch_console/internal/service"

// Status lines.
const (
	statusLoaded = "Status: Engine loaded!"
	statusBusy   = "Status: Simulating then Rendering Haber-Bosch Scenario"
	statusDone   = "Status: Simulation and Rendering done in %dms"
)

const (
	defaultCanvasID     = "canvas"
	defaultCanvasWidth  = 1200
	defaultCanvasHeight = 800
)

var (
	// ErrNotReady is returned for every event until Setup has completed.
	ErrNotReady = errors.New("engine not initialised yet")
	// ErrUnknownSection means a toggle names a block the controller does not manage.
	ErrUnknownSection = errors.New("unknown section")

	errBadSides      = errors.New("sides must be 1 or 2")
	errBadCanvasSize = errors.New("canvas size must be positive")
)

// RunRecorder persists one record per plot refresh.
type RunRecorder interface {
	Append(ctx context.Context, r models.RunRecord) error
}

// RefreshObserver receives metrics for every plot refresh.
type RefreshObserver interface {
	ObserveRefresh(kind, outcome string, elapsed time.Duration, rendered bool)
}

// Options configure a Controller. Zero values fall back to defaults.
type Options struct {
	Sides            int
	BaselineCatalyst models.Catalyst
	AltCatalyst      models.Catalyst
	PlotOptions      []string

	CanvasID     string
	CanvasWidth  int
	CanvasHeight int

	// Catalog is built over the engine's RangeFor in Setup when nil.
	Catalog *catalog.Catalog
	Lookups catalog.LookupRecorder

	Runs    RunRecorder
	Metrics RefreshObserver
	Log     *logger.Logger
	Now     func() time.Time
	// Tracer defaults to the global provider's tracer.
	Tracer trace.Tracer
}

// Controller owns the form, the engine bindings, the retained chart handle
// and the status line. It is not safe for concurrent use; EventLoop
// serialises access to it.
type Controller struct {
	opts   Options
	log    *logger.Logger
	now    func() time.Time
	tracer trace.Tracer

	canvasW, canvasH int

	eng     engine.Engine
	catalog *catalog.Catalog
	form    *form.Form
	maxBeds int
	ready   bool

	applied map[models.Side]models.Catalyst
	chart   engine.ChartHandle
	alert   string
}

// NewController validates opts and returns a controller waiting for Setup.
func NewController(opts Options) (*Controller, error) {
	if opts.Sides == 0 {
		opts.Sides = 2
	}
	if opts.Sides != 1 && opts.Sides != 2 {
		return nil, errBadSides
	}
	if opts.BaselineCatalyst == "" {
		opts.BaselineCatalyst = models.CatalystKMIR
	}
	if opts.AltCatalyst == "" {
		opts.AltCatalyst = models.CatalystFN
	}
	for _, c := range []models.Catalyst{opts.BaselineCatalyst, opts.AltCatalyst} {
		if !catalog.IsSupported(c) {
			return nil, &catalog.UnknownCatalystError{Catalyst: c}
		}
	}
	if opts.CanvasID == "" {
		opts.CanvasID = defaultCanvasID
	}
	if opts.CanvasWidth == 0 {
		opts.CanvasWidth = defaultCanvasWidth
	}
	if opts.CanvasHeight == 0 {
		opts.CanvasHeight = defaultCanvasHeight
	}
	if opts.CanvasWidth < 0 || opts.CanvasHeight < 0 {
		return nil, errBadCanvasSize
	}
	if opts.Log == nil {
		opts.Log = logger.Get(logger.InfoLevel)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	return &Controller{
		opts:    opts,
		log:     opts.Log,
		now:     opts.Now,
		tracer:  opts.Tracer,
		canvasW: opts.CanvasWidth,
		canvasH: opts.CanvasHeight,
		applied: make(map[models.Side]models.Catalyst),
	}, nil
}

// Setup injects the engine and builds the form. It must complete before Main
// and before any event is handled.
func (c *Controller) Setup(b engine.Bindings) error {
	if err := b.Validate(); err != nil {
		return err
	}
	cat := c.opts.Catalog
	if cat == nil {
		cat = catalog.New(b.Engine.RangeFor, c.opts.Lookups)
	}

	supported := catalog.Supported()
	maxBeds := 0
	var axis models.AxisRanges
	for _, s := range supported {
		e, err := cat.Lookup(s)
		if err != nil {
			return err
		}
		if n := e.MaxBeds(); n > maxBeds {
			maxBeds = n
		}
		if s == c.opts.BaselineCatalyst {
			axis = e.Axis
		}
	}

	f, err := form.Build(form.Layout{
		Sides:       c.opts.Sides,
		MaxBeds:     maxBeds,
		Catalysts:   supported,
		Axis:        axis,
		PlotOptions: c.opts.PlotOptions,
	})
	if err != nil {
		return err
	}

	c.eng = b.Engine
	c.catalog = cat
	c.form = f
	c.maxBeds = maxBeds
	if r, ok := c.eng.(engine.Resizer); ok {
		if err := r.Resize(c.opts.CanvasID, c.canvasW, c.canvasH); err != nil {
			return err
		}
	}
	c.ready = true
	c.log.Infow("engine_bound", "sides", c.opts.Sides, "max_beds", maxBeds, "canvas", c.opts.CanvasID)
	return c.form.SetDisplay(form.StatusID, statusLoaded)
}

// Main applies the initial catalyst ranges of every side and draws the first
// plot. Wiring failures are reported through the alert as well.
func (c *Controller) Main(ctx context.Context) error {
	if !c.ready {
		return ErrNotReady
	}
	initial := map[models.Side]models.Catalyst{
		models.Baseline: c.opts.BaselineCatalyst,
		models.Alt:      c.opts.AltCatalyst,
	}
	for _, side := range c.Sides() {
		if err := c.selectCatalyst(side, initial[side]); err != nil {
			return c.fail(err)
		}
	}
	return c.fail(c.RefreshPlot(ctx))
}

// Sides lists the active sides.
func (c *Controller) Sides() []models.Side {
	return form.Sides(c.opts.Sides)
}

// Ready reports whether Setup has completed.
func (c *Controller) Ready() bool { return c.ready }

// Applied returns the catalyst last applied to side.
func (c *Controller) Applied(side models.Side) (models.Catalyst, bool) {
	cat, ok := c.applied[side]
	return cat, ok
}

// ApplyCatalystRange resets pressure, bed count and every bed start
// temperature of side to the catalyst's bounds and defaults, then refreshes
// the side's labels.
func (c *Controller) ApplyCatalystRange(side models.Side, cat models.Catalyst) error {
	if !c.ready {
		return ErrNotReady
	}
	entry, err := c.catalog.Lookup(cat)
	if err != nil {
		return err
	}

	sel, err := c.form.Control(form.CatalystID(side))
	if err != nil {
		return err
	}
	if err := sel.Select(string(cat)); err != nil {
		return err
	}

	bounds := map[string]models.RangeSpec{
		form.PressureID(side): entry.Pressure,
		form.BedCountID(side): entry.BedCount,
	}
	for i, r := range entry.BedStartTemps {
		bounds[form.BedStartTempID(side, i+1)] = r
	}
	for id, r := range bounds {
		ctl, err := c.form.Control(id)
		if err != nil {
			return err
		}
		ctl.SetBounds(r)
	}

	if err := c.renderSideMirrors(side); err != nil {
		return err
	}
	c.applied[side] = cat
	c.log.Debugw("catalyst_range_applied", "side", side.String(), "catalyst", cat, "pressure", entry.Pressure.Default, "beds", entry.BedCount.Default)
	return nil
}

// SetVisibleBedCount shows bed panels 1..count of side and hides the rest.
// count is not checked against the bed count bounds.
func (c *Controller) SetVisibleBedCount(side models.Side, count int) error {
	if !c.ready {
		return ErrNotReady
	}
	for bed := 1; bed <= c.maxBeds; bed++ {
		if err := c.form.SetHidden(form.BedPanelID(side, bed), bed > count); err != nil {
			return err
		}
	}
	return nil
}

// VisibleBedCount counts the visible bed panels of side.
func (c *Controller) VisibleBedCount(side models.Side) (int, error) {
	n := 0
	for bed := 1; bed <= c.maxBeds; bed++ {
		hidden, err := c.form.Hidden(form.BedPanelID(side, bed))
		if err != nil {
			return 0, err
		}
		if !hidden {
			n++
		}
	}
	return n, nil
}

// ToggleSection flips the checkbox owning an optional block and shows the
// block exactly when the box is checked. Values inside the block are kept.
func (c *Controller) ToggleSection(sectionID string) error {
	if !c.ready {
		return ErrNotReady
	}
	toggleID, ok := form.ToggleForSection(sectionID)
	if !ok {
		return fmt.Errorf("%w %s", ErrUnknownSection, sectionID)
	}
	box, err := c.form.Control(toggleID)
	if err != nil {
		return err
	}
	box.Checked = !box.Checked
	return c.form.SetHidden(sectionID, !box.Checked)
}

// OnInput is a live edit: the value is stored and its label updated, nothing
// is recomputed. Select and checkbox controls only react to change events.
func (c *Controller) OnInput(controlID, raw string) error {
	if !c.ready {
		return ErrNotReady
	}
	ctl, err := c.form.Control(controlID)
	if err != nil {
		return err
	}
	if ctl.Kind != form.KindRange {
		return nil
	}
	if err := ctl.Apply(raw); err != nil {
		return err
	}
	if m, ok := c.form.MirrorFor(controlID); ok {
		return c.form.RenderMirror(m)
	}
	return nil
}

// OnChange is a committed edit: the value is stored, dependent state is
// synchronised and the plot refreshed.
func (c *Controller) OnChange(ctx context.Context, controlID, raw string) error {
	if !c.ready {
		return ErrNotReady
	}
	ctl, err := c.form.Control(controlID)
	if err != nil {
		return err
	}

	if side, ok := c.catalystSide(controlID); ok {
		cat := models.ParseCatalyst(raw)
		if !catalog.IsSupported(cat) {
			return fmt.Errorf("%w: %q for %s", form.ErrInvalidValue, raw, controlID)
		}
		if err := c.selectCatalyst(side, cat); err != nil {
			return err
		}
		return c.RefreshPlot(ctx)
	}

	if err := ctl.Apply(raw); err != nil {
		return err
	}

	if section, ok := form.SectionForToggle(controlID); ok {
		if err := c.form.SetHidden(section, !ctl.Checked); err != nil {
			return err
		}
	}
	if m, ok := c.form.MirrorFor(controlID); ok {
		if err := c.form.RenderMirror(m); err != nil {
			return err
		}
	}
	if side, ok := c.bedCountSide(controlID); ok {
		if err := c.SetVisibleBedCount(side, int(ctl.Value)); err != nil {
			return err
		}
	}
	return c.RefreshPlot(ctx)
}

// Resize changes the backing size of the canvas and redraws.
func (c *Controller) Resize(ctx context.Context, width, height int) error {
	if !c.ready {
		return ErrNotReady
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", form.ErrInvalidValue, width, height)
	}
	if r, ok := c.eng.(engine.Resizer); ok {
		if err := r.Resize(c.opts.CanvasID, width, height); err != nil {
			return err
		}
	}
	c.canvasW, c.canvasH = width, height
	return c.RefreshPlot(ctx)
}

// selectCatalyst applies the ranges of cat and shows the default number of
// bed panels.
func (c *Controller) selectCatalyst(side models.Side, cat models.Catalyst) error {
	if err := c.ApplyCatalystRange(side, cat); err != nil {
		return err
	}
	beds, err := c.form.Control(form.BedCountID(side))
	if err != nil {
		return err
	}
	return c.SetVisibleBedCount(side, int(beds.Value))
}

func (c *Controller) renderSideMirrors(side models.Side) error {
	ids := []string{form.PressureID(side), form.BedCountID(side)}
	for bed := 1; bed <= c.maxBeds; bed++ {
		ids = append(ids, form.BedStartTempID(side, bed), form.BedSlopeTempID(side, bed))
	}
	for _, id := range ids {
		m, ok := c.form.MirrorFor(id)
		if !ok {
			return fmt.Errorf("%w %s", form.ErrMissingControl, form.DisplayID(id))
		}
		if err := c.form.RenderMirror(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) catalystSide(controlID string) (models.Side, bool) {
	for _, s := range c.Sides() {
		if controlID == form.CatalystID(s) {
			return s, true
		}
	}
	return 0, false
}

func (c *Controller) bedCountSide(controlID string) (models.Side, bool) {
	for _, s := range c.Sides() {
		if controlID == form.BedCountID(s) {
			return s, true
		}
	}
	return 0, false
}

// fail records wiring errors in the alert and passes err through.
func (c *Controller) fail(err error) error {
	if err == nil {
		return nil
	}
	if isSetupBug(err) {
		c.alert = err.Error()
		c.log.Errorw("ui_wiring_error", "err", err)
	}
	return err
}

func isSetupBug(err error) bool {
	return errors.Is(err, form.ErrMissingControl) ||
		errors.Is(err, ErrUnknownSection) ||
		errors.Is(err, catalog.ErrUnknownCatalyst)
}
