package endpoint_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/cryptlib/observability"
	"github.com/kbukum/cryptlib/server/endpoint"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func check(name string, status observability.HealthStatus) observability.HealthChecker {
	return observability.HealthCheckFunc(func(context.Context) observability.Health {
		return observability.Health{Name: name, Status: status}
	})
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []observability.HealthChecker
		wantCode   int
		wantStatus observability.HealthStatus
	}{
		{"no checkers", nil, http.StatusOK, observability.HealthStatusUp},
		{"all up", []observability.HealthChecker{check("cipher", observability.HealthStatusUp)}, http.StatusOK, observability.HealthStatusUp},
		{"degraded", []observability.HealthChecker{
			check("cipher", observability.HealthStatusUp),
			check("entropy", observability.HealthStatusDegraded),
		}, http.StatusOK, observability.HealthStatusDegraded},
		{"down", []observability.HealthChecker{
			check("cipher", observability.HealthStatusDown),
			check("entropy", observability.HealthStatusUp),
		}, http.StatusServiceUnavailable, observability.HealthStatusDown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", endpoint.Health("cryptlib", tc.checkers...))

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			var body observability.ServiceHealth
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Status != tc.wantStatus {
				t.Errorf("expected status %s, got %s", tc.wantStatus, body.Status)
			}
			if body.Service != "cryptlib" {
				t.Errorf("expected service cryptlib, got %q", body.Service)
			}
			if len(body.Components) != len(tc.checkers) {
				t.Errorf("expected %d components, got %d", len(tc.checkers), len(body.Components))
			}
		})
	}
}

func TestVersion(t *testing.T) {
	r := gin.New()
	r.GET("/version", endpoint.Version("iv-prefix", "hex-sha256"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/version", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["version"] == nil || body["go_version"] == nil {
		t.Errorf("expected build fields, got %v", body)
	}
	if body["envelope"] != "iv-prefix" || body["kdf"] != "hex-sha256" {
		t.Errorf("expected crypto settings, got %v", body)
	}
}
