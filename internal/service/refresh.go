package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"haber_bosch_console/internal/form"
	"haber_bosch_console/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const coordOutOfRange = "Mouse pointer is out of range"

// UnknownPlotKindError means the plot_type selector holds a value the
// renderer dispatch does not know.
type UnknownPlotKindError struct {
	Selector string
}

func (e *UnknownPlotKindError) Error() string {
	return fmt.Sprintf("unknown plot kind %q", e.Selector)
}

// RefreshPlot assembles the request and renders the selected plot. Unknown
// plot kinds and engine failures are reported on the status line and leave
// the previous chart in place; only wiring errors are returned.
func (c *Controller) RefreshPlot(ctx context.Context) error {
	if !c.ready {
		return ErrNotReady
	}
	sel, err := c.form.Control(form.PlotTypeID)
	if err != nil {
		return err
	}
	req, err := c.AssembleRequest()
	if err != nil {
		return err
	}
	if err := c.form.SetDisplay(form.StatusID, statusBusy); err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, "console.refresh",
		trace.WithAttributes(attribute.String("plot_type", sel.Selected)))
	defer span.End()

	start := c.now()
	run := models.RunRecord{
		StartedAt: start.UTC(),
		Sides:     len(req.Scenarios()),
	}

	kind, ok := models.PlotKindFromSelector(sel.Selected)
	if !ok {
		perr := &UnknownPlotKindError{Selector: sel.Selected}
		run.Outcome = models.OutcomeUnknownPlotKind
		run.Detail = perr.Error()
		c.log.Warnw("plot_refresh_skipped", "selector", sel.Selected, "err", perr)
		c.finishRun(ctx, run, 0, false)
		return c.form.SetDisplay(form.StatusID, "Status: "+perr.Error())
	}
	run.Kind = string(kind)

	handle, rerr := c.eng.Render(kind, c.opts.CanvasID, req)
	elapsed := c.now().Sub(start)
	run.ElapsedMs = elapsedMillis(elapsed)

	if rerr != nil {
		run.Outcome = models.OutcomeFailed
		run.Detail = rerr.Error()
		c.log.Errorw("plot_render_failed", "kind", kind, "elapsed_ms", run.ElapsedMs, "err", rerr)
		c.finishRun(ctx, run, elapsed, true)
		return c.form.SetDisplay(form.StatusID, "Status: Rendering failed: "+rerr.Error())
	}

	c.chart = handle
	run.Outcome = models.OutcomeRendered
	c.log.Infow("plot_refreshed", "kind", kind, "elapsed_ms", run.ElapsedMs, "sides", run.Sides)
	c.finishRun(ctx, run, elapsed, true)
	return c.form.SetDisplay(form.StatusID, fmt.Sprintf(statusDone, run.ElapsedMs))
}

// finishRun records metrics and the refresh span outcome, then persists the
// run. Persistence failures are logged only.
func (c *Controller) finishRun(ctx context.Context, run models.RunRecord, elapsed time.Duration, rendered bool) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("kind", run.Kind),
		attribute.String("outcome", run.Outcome),
		attribute.Int("sides", run.Sides),
		attribute.Int64("elapsed_ms", run.ElapsedMs),
	)
	if run.Outcome != models.OutcomeRendered {
		span.SetStatus(codes.Error, run.Detail)
	}

	if c.opts.Metrics != nil {
		c.opts.Metrics.ObserveRefresh(run.Kind, run.Outcome, elapsed, rendered)
	}
	if c.opts.Runs == nil {
		return
	}
	if err := c.opts.Runs.Append(ctx, run); err != nil {
		c.log.Warnw("run_log_append_failed", "outcome", run.Outcome, "err", err)
	}
}

// elapsedMillis rounds up to whole milliseconds.
func elapsedMillis(d time.Duration) int64 {
	return int64(math.Ceil(float64(d) / float64(time.Millisecond)))
}

// QueryCoordinate maps a pointer position on the displayed canvas to data
// space. offsetX/offsetY are relative to the displayed canvas, whose size
// may differ from the backing canvas. The coord label is updated whenever a
// chart exists.
func (c *Controller) QueryCoordinate(offsetX, offsetY, displayedW, displayedH float64) models.Optional[models.Point] {
	none := models.None[models.Point]()
	if !c.ready || c.chart == nil {
		return none
	}

	pt := none
	onCanvas := displayedW > 0 && displayedH > 0 &&
		offsetX >= 0 && offsetY >= 0 && offsetX <= displayedW && offsetY <= displayedH
	if onCanvas {
		logicX := offsetX * float64(c.canvasW) / displayedW
		logicY := offsetY * float64(c.canvasH) / displayedH
		pt = c.chart.Coordinate(int(logicX), int(logicY))
	}
	if err := c.form.SetDisplay(form.CoordID, FormatCoordinate(pt)); err != nil {
		c.log.Warnw("coord_display_missing", "err", err)
	}
	return pt
}

// FormatCoordinate renders a coordinate query result for the coord label.
func FormatCoordinate(pt models.Optional[models.Point]) string {
	p, ok := pt.Get()
	if !ok {
		return coordOutOfRange
	}
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}
