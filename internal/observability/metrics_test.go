package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRefreshRecordsCountAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.ObserveRefresh("concentration-balance", "RENDERED", 25*time.Millisecond, true)
	c.ObserveRefresh("", "UNKNOWN_PLOT_KIND", 0, false)

	if got := testutil.ToFloat64(c.PlotRefreshes.WithLabelValues("concentration-balance", "RENDERED")); got != 1 {
		t.Fatalf("rendered refreshes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.PlotRefreshes.WithLabelValues("unknown", "UNKNOWN_PLOT_KIND")); got != 1 {
		t.Fatalf("unknown refreshes = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "hbc_render_duration_seconds"); count != 1 {
		t.Fatalf("render duration samples = %d, want 1", count)
	}
}

func TestCatalogLookupCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.CatalogLookup("KMIR", "miss")
	c.CatalogLookup("KMIR", "hit")
	c.CatalogLookup("KMIR", "hit")

	if got := testutil.ToFloat64(c.CatalogLookups.WithLabelValues("KMIR", "hit")); got != 2 {
		t.Fatalf("hits = %v, want 2", got)
	}
}

func TestNewCollectorTwiceReusesRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.PlotRefreshes != second.PlotRefreshes {
		t.Fatalf("expected the existing counter to be reused")
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.ObserveRefresh("k", "RENDERED", time.Second, true)
	c.CatalogLookup("FN", "hit")
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.ObserveRefresh("temperature-over-yield", "RENDERED", time.Millisecond, true)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "hbc_plot_refresh_total") {
		t.Fatalf("metrics body missing refresh counter:\n%s", w.Body.String())
	}
}

func histogramSampleCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var total uint64
	for _, mf := range families {
		if mf.GetName() != name || mf.GetType() != dto.MetricType_HISTOGRAM {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetHistogram().GetSampleCount()
		}
	}
	return total
}
