package middleware

import (
	"net/http"
	"strings"
	"time"

	apperrors "github.com/kbukum/cryptlib/errors"
	"github.com/kbukum/cryptlib/logger"
	"github.com/kbukum/cryptlib/resilience"
)

// ConcurrencyConfig caps how many requests run their handlers at once.
type ConcurrencyConfig struct {
	// MaxConcurrent is the number of in-flight requests; 0 disables the cap.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// MaxWaitMs is how long a request may queue for a slot before OVERLOADED.
	MaxWaitMs int `yaml:"max_wait_ms" mapstructure:"max_wait_ms"`
	// PathPrefix restricts the cap to matching paths (e.g. "/v1/").
	PathPrefix string `yaml:"path_prefix" mapstructure:"path_prefix"`
}

// ConcurrencyLimit returns middleware that runs matching requests inside a
// bulkhead and answers 503 OVERLOADED when no slot frees up in time.
func ConcurrencyLimit(cfg ConcurrencyConfig, log *logger.Logger) Middleware {
	if cfg.MaxConcurrent <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "http",
		MaxConcurrent: cfg.MaxConcurrent,
		MaxWait:       time.Duration(cfg.MaxWaitMs) * time.Millisecond,
		OnReject: func(name string, err error) {
			log.Warn("request rejected", map[string]interface{}{
				"bulkhead":        name,
				logger.FieldError: err.Error(),
			})
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.PathPrefix != "" && !strings.HasPrefix(r.URL.Path, cfg.PathPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			err := bh.Execute(r.Context(), func() error {
				next.ServeHTTP(w, r)
				return nil
			})
			if err != nil {
				w.Header().Set("Retry-After", "1")
				writeError(w, apperrors.Overloaded())
			}
		})
	}
}
