package middleware

import (
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kbukum/cryptlib/logger"
	"github.com/kbukum/cryptlib/observability"
)

// Tracing opens a server span per request and records request metrics.
// metrics may be nil. Must run after RequestID.
func Tracing(serviceName string, metrics *observability.CryptoMetrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			rc := observability.NewRequestContext(serviceName, r.Method+" "+r.URL.Path, logger.RequestIDFromContext(ctx), metrics)
			ctx, span := rc.Start(observability.WithRequestContext(ctx, rc))

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			var err error
			if sw.status >= 500 {
				err = &statusError{code: sw.status}
			}
			rc.End(ctx, span, strconv.Itoa(sw.status), err)
		})
	}
}

type statusError struct{ code int }

func (e *statusError) Error() string { return "http status " + strconv.Itoa(e.code) }
