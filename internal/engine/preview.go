package engine

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"

	"haber_bosch_console/internal/catalog"
	"haber_bosch_console/internal/models"

	"github.com/wcharczuk/go-chart/v2"
)

// Canvas padding of the preview chart, pixels.
const (
	padTop    = 40
	padLeft   = 70
	padRight  = 30
	padBottom = 50

	// autoMargin widens auto computed temperature ranges.
	autoMargin = 0.05
)

var (
	errCanvasTooSmall = errors.New("canvas too small for preview chart")
	errBadCanvasSize  = errors.New("canvas size must be positive")
)

// Preview stands in for the real engine. It plots the configured inlet
// temperature ramp of every bed over normalized reactor length; it does not
// run the reactor simulation.
type Preview struct {
	width  int
	height int

	mu     sync.Mutex
	images map[string][]byte
	sizes  map[string][2]int
}

var (
	_ Engine  = (*Preview)(nil)
	_ Resizer = (*Preview)(nil)
)

// NewPreview builds a preview engine drawing width x height PNGs unless a
// canvas is resized.
func NewPreview(width, height int) *Preview {
	return &Preview{
		width:  width,
		height: height,
		images: make(map[string][]byte),
		sizes:  make(map[string][2]int),
	}
}

// Resize sets the backing size of one canvas.
func (p *Preview) Resize(canvasID string, width, height int) error {
	if width <= 0 || height <= 0 {
		return errBadCanvasSize
	}
	p.mu.Lock()
	p.sizes[canvasID] = [2]int{width, height}
	p.mu.Unlock()
	return nil
}

func (p *Preview) size(canvasID string) (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sizes[canvasID]; ok {
		return s[0], s[1]
	}
	return p.width, p.height
}

// RangeFor serves the builtin range table.
func (p *Preview) RangeFor(c models.Catalyst) (models.RangeCatalogEntry, error) {
	return catalog.Builtin(c)
}

// Image returns the last PNG drawn onto canvasID.
func (p *Preview) Image(canvasID string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.images[canvasID]
	return b, ok
}

// Render draws the bed temperature ramps of every scenario in req.
func (p *Preview) Render(kind models.PlotKind, canvasID string, req models.SimulationRequest) (ChartHandle, error) {
	width, height := p.size(canvasID)
	if width <= padLeft+padRight || height <= padTop+padBottom {
		return nil, errCanvasTooSmall
	}

	var series []chart.Series
	for i, sc := range req.Scenarios() {
		xs, ys := bedRamp(sc)
		name := "Temperature [°C]"
		color := chart.ColorBlue
		if i > 0 {
			name = "Temperature [°C] (alt)"
			color = chart.ColorAlternateGray
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
		})
	}

	xr, yr := axisRanges(req)
	ch := chart.Chart{
		Title:  title(kind),
		Width:  width,
		Height: height,
		Background: chart.Style{Padding: chart.Box{
			Top: padTop, Left: padLeft, Right: padRight, Bottom: padBottom,
		}},
		XAxis:  chart.XAxis{Name: "Length Indicator", Range: &chart.ContinuousRange{Min: xr[0], Max: xr[1]}},
		YAxis:  chart.YAxis{Name: "Temperature [°C]", Range: &chart.ContinuousRange{Min: yr[0], Max: yr[1]}},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s preview: %w", kind, err)
	}

	p.mu.Lock()
	p.images[canvasID] = buf.Bytes()
	p.mu.Unlock()

	return &previewChart{
		left: padLeft, right: width - padRight,
		top: padTop, bottom: height - padBottom,
		x: xr, y: yr,
	}, nil
}

func title(kind models.PlotKind) string {
	switch kind {
	case models.PlotTemperatureOverYield:
		return "Haber-Bosch Temperature over Yield (bed preview)"
	default:
		return "Haber-Bosch Concentration Balances over Length (bed preview)"
	}
}

// bedRamp lays the beds side by side on [0,1]; each bed rises linearly from
// its start temperature by its slope.
func bedRamp(sc models.ScenarioConfig) ([]float64, []float64) {
	n := len(sc.Beds)
	xs := make([]float64, 0, 2*n)
	ys := make([]float64, 0, 2*n)
	for i, b := range sc.Beds {
		start := b.StartTemp - models.CelsiusToKelvin
		xs = append(xs, float64(i)/float64(n), float64(i+1)/float64(n))
		ys = append(ys, start, start+b.SlopeTemp)
	}
	return xs, ys
}

func axisRanges(req models.SimulationRequest) ([2]float64, [2]float64) {
	xr := [2]float64{0, 1}
	yr := autoTempRange(req)
	if axis, ok := req.AxisSettings.Get(); ok {
		if axis.LengthMax > 0 {
			xr[1] = axis.LengthMax
		}
		if axis.MaxTemp > axis.MinTemp {
			yr = [2]float64{axis.MinTemp, axis.MaxTemp}
		}
	}
	return xr, yr
}

func autoTempRange(req models.SimulationRequest) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, sc := range req.Scenarios() {
		_, ys := bedRamp(sc)
		for _, y := range ys {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	if math.IsInf(lo, 0) {
		return [2]float64{0, 1}
	}
	if hi-lo < 1 {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * autoMargin
	return [2]float64{lo - pad, hi + pad}
}

// previewChart maps pixels inside the plot box linearly onto the axes.
type previewChart struct {
	left, right, top, bottom int
	x, y                     [2]float64
}

func (c *previewChart) Coordinate(px, py int) models.Optional[models.Point] {
	if px < c.left || px > c.right || py < c.top || py > c.bottom {
		return models.None[models.Point]()
	}
	fx := float64(px-c.left) / float64(c.right-c.left)
	fy := float64(py-c.top) / float64(c.bottom-c.top)
	return models.Some(models.Point{
		X: c.x[0] + fx*(c.x[1]-c.x[0]),
		Y: c.y[1] - fy*(c.y[1]-c.y[0]),
	})
}
