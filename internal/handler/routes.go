// Package handler maps the gateway's HTTP surface onto the service layer.
package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-gateway-go/internal/config"
	"service-gateway-go/internal/metrics"
	"service-gateway-go/internal/route"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, gw *GatewayHandler, health *HealthHandler) {
	e.GET("/", gw.Home)
	e.GET("/users", gw.Relay(route.Users))
	e.GET("/orders", gw.Relay(route.Orders))
	e.GET("/combined-data", gw.CombinedData)

	e.GET("/healthz", health.Healthz)
	e.GET("/gateway/status", health.Status)
}

// RegisterMetrics exposes the Prometheus registry when metrics are enabled.
func RegisterMetrics(e *echo.Echo, cfg *config.Config, m *metrics.Metrics) {
	if !cfg.Metrics.Enabled {
		return
	}
	e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
}
