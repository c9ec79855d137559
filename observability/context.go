package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RequestContext tracks one inbound request across its span and metrics.
type RequestContext struct {
	ServiceName string
	Route       string
	RequestID   string
	StartTime   time.Time
	Metrics     *CryptoMetrics
}

// NewRequestContext creates a request context. If metrics is nil, metric
// recording is skipped.
func NewRequestContext(serviceName, route, requestID string, metrics *CryptoMetrics) *RequestContext {
	return &RequestContext{
		ServiceName: serviceName,
		Route:       route,
		RequestID:   requestID,
		StartTime:   time.Now(),
		Metrics:     metrics,
	}
}

type requestContextKey struct{}

// WithRequestContext stores a RequestContext in the context.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFromContext retrieves the RequestContext from context, or nil.
func RequestContextFromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey{}).(*RequestContext); ok {
		return rc
	}
	return nil
}

// Start opens the request span and records the request start metric.
func (rc *RequestContext) Start(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanHTTPRequest, trace.WithSpanKind(trace.SpanKindServer))
	span.SetAttributes(
		attribute.String(AttrServiceName, rc.ServiceName),
		attribute.String(AttrRoute, rc.Route),
		attribute.String(AttrRequestID, rc.RequestID),
	)
	if rc.Metrics != nil {
		rc.Metrics.RecordRequestStart(ctx)
	}
	return ctx, span
}

// End closes the span and records request-end metrics.
func (rc *RequestContext) End(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(rc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
	}
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordRequestEnd(ctx, rc.Route, status, duration)
	}
}

// Duration returns the elapsed time since the request started.
func (rc *RequestContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
