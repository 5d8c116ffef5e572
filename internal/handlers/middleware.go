package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
	maxRequestIDLen = 64

	tracerName = "haber_bosch_console/internal/handlers"
)

// requestIDMiddleware tags every request with an id, echoed in the response
// header, opens a server span continuing any incoming trace context and logs
// the finished request.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDHeader, id)

	ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
	ctx, span := h.tracer().Start(ctx, fmt.Sprintf("HTTP %s %s", c.Request.Method, c.FullPath()),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.String("request_id", id),
		),
	)
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status >= 500 {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
	}

	if h.log != nil {
		h.log.Debugw("http_request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (h *Handler) tracer() trace.Tracer {
	if h.opts.Tracer != nil {
		return h.opts.Tracer
	}
	return otel.Tracer(tracerName)
}
