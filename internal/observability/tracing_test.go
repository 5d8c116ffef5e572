package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracing_DisabledInstallsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	_, span := otel.Tracer("test").Start(context.Background(), "x")
	if span.SpanContext().IsValid() {
		t.Fatalf("disabled tracing must produce invalid span contexts")
	}
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestExporterFromConfig(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	exp, err := exporterFromConfig(ctx, TracingConfig{Exporter: "STDOUT"}, &buf)
	if err != nil {
		t.Fatalf("stdout exporter: %v", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	_, span := tp.Tracer("test").Start(ctx, "console.refresh")
	span.End()
	if err := tp.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "console.refresh") {
		t.Fatalf("span not exported: %s", buf.String())
	}

	if _, err := exporterFromConfig(ctx, TracingConfig{Exporter: "zipkin"}, &buf); err == nil {
		t.Fatalf("expected unsupported exporter error")
	}
}

func TestShutdownWithTimeout(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	_, span := tp.Tracer("test").Start(context.Background(), "x")
	span.End()

	ShutdownWithTimeout(context.Background(), tp.Shutdown, nil)
	ShutdownWithTimeout(context.Background(), nil, nil)

	if len(sr.Ended()) != 1 {
		t.Fatalf("ended spans = %d", len(sr.Ended()))
	}
}
