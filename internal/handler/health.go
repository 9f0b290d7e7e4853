package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"service-gateway-go/internal/route"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	routes  *route.Table
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(routes *route.Table, v Version) *HealthHandler {
	return &HealthHandler{routes: routes, version: v}
}

// Healthz returns a simple OK response for liveness probes. It does not
// check upstream health.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status returns the gateway version and its route table.
func (h *HealthHandler) Status(c echo.Context) error {
	upstreams := make(map[string]string)
	for _, r := range h.routes.Routes() {
		upstreams[r.Name] = r.URL()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   string(h.version),
		"upstreams": upstreams,
	})
}
