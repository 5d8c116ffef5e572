package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the console's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	PlotRefreshes  *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	CatalogLookups *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Registering twice returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	refreshes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hbc_plot_refresh_total",
		Help: "Plot refreshes, labeled by plot kind and outcome.",
	}, []string{"kind", "outcome"}), "hbc_plot_refresh_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hbc_render_duration_seconds",
		Help:    "Simulation plus rendering time of one plot refresh.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"kind"}), "hbc_render_duration_seconds")
	if err != nil {
		return nil, err
	}

	lookups, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hbc_catalog_lookups_total",
		Help: "Range catalog lookups, labeled by catalyst and hit/miss/error.",
	}, []string{"catalyst", "result"}), "hbc_catalog_lookups_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		PlotRefreshes:  refreshes,
		RenderDuration: durations,
		CatalogLookups: lookups,
	}, nil
}

// ObserveRefresh records one plot refresh. Durations are only observed for
// refreshes that reached the engine.
func (c *Collector) ObserveRefresh(kind, outcome string, elapsed time.Duration, rendered bool) {
	if c == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	c.PlotRefreshes.WithLabelValues(kind, outcome).Inc()
	if rendered {
		c.RenderDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

// CatalogLookup satisfies catalog.LookupRecorder.
func (c *Collector) CatalogLookup(catalyst, result string) {
	if c == nil {
		return
	}
	c.CatalogLookups.WithLabelValues(catalyst, result).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
