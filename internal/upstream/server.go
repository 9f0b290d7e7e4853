package upstream

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves one dataset.
type Handler struct {
	dataset Dataset
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandler creates a Handler for ds.
func NewHandler(ds Dataset, logger *slog.Logger) *Handler {
	return &Handler{
		dataset: ds,
		logger:  logger.With("component", "upstream", "dataset", ds.Name),
		now:     time.Now,
	}
}

// Serve writes the dataset as JSON.
func (h *Handler) Serve(c echo.Context) error {
	h.logger.Info("request received", "path", c.Request().URL.Path)
	return c.JSON(http.StatusOK, h.dataset.Payload(h.now()))
}

// Healthz returns a simple OK response for liveness probes.
func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"dataset": h.dataset.Name,
	})
}

// RegisterRoutes mounts the dataset and health routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET(h.dataset.Path, h.Serve)
	e.GET("/healthz", h.Healthz)
}
