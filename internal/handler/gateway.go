package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"service-gateway-go/internal/model"
	"service-gateway-go/internal/service"
)

// Banner is the body of GET /.
const Banner = "API Gateway rodando. Use /users, /orders ou /combined-data."

// GatewayHandler serves the public data routes.
type GatewayHandler struct {
	service *service.GatewayService
	logger  *slog.Logger
}

// NewGatewayHandler creates a GatewayHandler.
func NewGatewayHandler(svc *service.GatewayService, logger *slog.Logger) *GatewayHandler {
	return &GatewayHandler{
		service: svc,
		logger:  logger.With("component", "gateway_handler"),
	}
}

// Home returns the service banner. It never calls an upstream.
func (h *GatewayHandler) Home(c echo.Context) error {
	return c.String(http.StatusOK, Banner)
}

// Relay returns a handler that forwards to the named route and writes back the
// upstream status and JSON body unchanged.
func (h *GatewayHandler) Relay(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp, err := h.service.Fetch(c.Request().Context(), name)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSONBlob(resp.StatusCode, resp.Body)
	}
}

// CombinedData returns the users report built from the members route.
func (h *GatewayHandler) CombinedData(c echo.Context) error {
	rep, err := h.service.CombinedData(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

// mapError writes the error envelope for err. Transport failures become 503,
// bad upstream payloads or statuses 502, anything else 500.
func (h *GatewayHandler) mapError(c echo.Context, err error) error {
	h.logger.Error("gateway error",
		"err", err,
		"path", c.Request().URL.Path,
	)

	var ue *service.UpstreamError
	if errors.As(err, &ue) {
		status := http.StatusBadGateway
		if ue.Kind == service.KindUnreachable {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, model.ErrorEnvelope{Error: ue.Error()})
	}

	return c.JSON(http.StatusInternalServerError, model.ErrorEnvelope{
		Error: "internal gateway error",
	})
}
