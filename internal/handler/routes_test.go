package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"service-gateway-go/internal/config"
	"service-gateway-go/internal/metrics"
)

func TestRegisterRoutes_Wiring(t *testing.T) {
	users := jsonUpstream(t, http.StatusOK, `[{"id":1}]`)
	orders := jsonUpstream(t, http.StatusOK, `[{"order_id":"O1001"}]`)
	members := jsonUpstream(t, http.StatusOK, `{"users":[]}`)

	gw, table := newTestGateway(t, users.URL, orders.URL, members.URL)
	health := NewHealthHandler(table, "test")

	e := echo.New()
	RegisterRoutes(e, gw, health)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"GET /", http.MethodGet, "/", http.StatusOK},
		{"GET /users", http.MethodGet, "/users", http.StatusOK},
		{"GET /orders", http.MethodGet, "/orders", http.StatusOK},
		{"GET /combined-data", http.MethodGet, "/combined-data", http.StatusOK},
		{"GET /healthz", http.MethodGet, "/healthz", http.StatusOK},
		{"GET /gateway/status", http.MethodGet, "/gateway/status", http.StatusOK},
		{"POST /users not allowed", http.MethodPost, "/users", http.StatusMethodNotAllowed},
		{"GET /unknown returns 404", http.MethodGet, "/payments", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRegisterRoutes_HomeIndependentOfUpstreams(t *testing.T) {
	gw, table := newTestGateway(t, deadURL, deadURL, deadURL)

	e := echo.New()
	RegisterRoutes(e, gw, NewHealthHandler(table, "test"))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRegisterMetrics(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = true
	m := metrics.New()
	m.RequestsTotal.WithLabelValues("GET", "200", "/users").Inc()

	e := echo.New()
	RegisterMetrics(e, cfg, m)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "gateway_http_requests_total") {
		t.Error("expected gateway_http_requests_total in exposition output")
	}
}

func TestRegisterMetrics_Disabled(t *testing.T) {
	e := echo.New()
	RegisterMetrics(e, config.Default(), metrics.New())

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
