package httpx

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scope = "ethglobal-ics-feed"

// Telemetry holds OpenTelemetry instrumentation for the HTTP surface.
type Telemetry struct {
	tracer          trace.Tracer
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCounter    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewTelemetry creates request metrics and a tracer on the global providers.
func NewTelemetry() (*Telemetry, error) {
	meter := otel.Meter(scope)
	t := &Telemetry{tracer: otel.Tracer(scope)}

	var err error
	if t.requestCounter, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}
	if t.requestDuration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	if t.errorCounter, err = meter.Int64Counter("http.server.errors",
		metric.WithDescription("Total number of HTTP errors (4xx and 5xx)"),
		metric.WithUnit("{error}")); err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}
	if t.activeRequests, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("failed to create active requests counter: %w", err)
	}

	return t, nil
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Middleware instruments every request with metrics and a span.
func (t *Telemetry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, span := t.tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.url", r.URL.String()),
				attribute.String("http.host", r.Host),
			),
		)
		defer span.End()

		routeAttrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", r.URL.Path),
		)
		t.activeRequests.Add(ctx, 1, routeAttrs)
		defer t.activeRequests.Add(ctx, -1, routeAttrs)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		duration := time.Since(start).Seconds()
		attrs := []attribute.KeyValue{
			attribute.String("http.method", r.Method),
			attribute.String("http.route", r.URL.Path),
			attribute.Int("http.status_code", rw.statusCode),
		}

		t.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
		t.requestDuration.Record(ctx, duration, metric.WithAttributes(attrs...))

		if rw.statusCode >= 400 {
			t.errorCounter.Add(ctx, 1, metric.WithAttributes(append(attrs,
				attribute.String("http.status_class", fmt.Sprintf("%dxx", rw.statusCode/100)))...))
			span.SetAttributes(attribute.Bool("error", true))
		}

		span.SetAttributes(
			attribute.Int("http.status_code", rw.statusCode),
			attribute.Float64("http.duration_seconds", duration),
		)
	})
}
