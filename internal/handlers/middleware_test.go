package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"haber_bosch_console/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// minimal router wiring only the middleware and an endpoint echoing the id
func newMiddlewareOnlyRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{}, nil, Options{})
	r.GET("/echo", h.requestIDMiddleware, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})
	return r
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"client id kept", "abc-123", true},
		{"missing id generated", "", false},
		{"oversized id replaced", strings.Repeat("x", maxRequestIDLen+1), false},
	}

	r := newMiddlewareOnlyRouter()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/echo", nil)
			if tc.header != "" {
				req.Header.Set(requestIDHeader, tc.header)
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get(requestIDHeader)
			if got != w.Body.String() {
				t.Fatalf("header %q and context %q differ", got, w.Body.String())
			}
			if tc.wantSame {
				if got != tc.header {
					t.Fatalf("got %q, want %q", got, tc.header)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected generated uuid, got %q", got)
			}
		})
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hbc_up 1\n"))
	})
	r := NewHandler(&service.Service{}, nil, Options{Metrics: metrics}).InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "hbc_up 1") {
		t.Fatalf("metrics status=%d body=%s", w.Code, w.Body.String())
	}

	// without a metrics handler the route is absent
	r = newTestRouter(&service.Service{})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", w.Code)
	}
}

func TestRequestIDMiddleware_ServerSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	console := &mockConsole{snapErr: errors.New("boom")}
	r := NewHandler(&service.Service{Console: console}, nil, Options{Tracer: tp.Tracer("test")}).InitRoutes()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/form", nil)
	req.Header.Set(requestIDHeader, "rid-1")
	r.ServeHTTP(w, req)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "HTTP GET /api/v1/form" || s.SpanKind() != trace.SpanKindServer {
		t.Fatalf("unexpected span %q kind %v", s.Name(), s.SpanKind())
	}
	got := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		got[kv.Key] = kv.Value
	}
	if got["request_id"].AsString() != "rid-1" || got["http.status_code"].AsInt64() != http.StatusInternalServerError {
		t.Fatalf("unexpected attributes %v", got)
	}
	if s.Status().Code != codes.Error {
		t.Fatalf("5xx must mark the span as error")
	}
}

func TestSwaggerDocRoute(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/v1/form/events") {
		t.Fatalf("status=%d body=%.200s", w.Code, w.Body.String())
	}
}
