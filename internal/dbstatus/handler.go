package dbstatus

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Banner is the body of GET /.
const Banner = "Serviço WEB rodando. Acesse /status para verificar a conexão com o DB."

// Response is the body of GET /status.
type Response struct {
	Status  string `json:"status"`
	DBHost  string `json:"db_host"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// Handler serves the status web routes.
type Handler struct {
	pinger Pinger
	dbHost string
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(p Pinger, dbHost string, logger *slog.Logger) *Handler {
	return &Handler{
		pinger: p,
		dbHost: dbHost,
		logger: logger.With("component", "dbstatus"),
	}
}

// Home returns the service banner.
func (h *Handler) Home(c echo.Context) error {
	return c.String(http.StatusOK, Banner)
}

// Status checks the database and reports the outcome.
func (h *Handler) Status(c echo.Context) error {
	if err := h.pinger.Check(c.Request().Context()); err != nil {
		h.logger.Error("database check failed", "db_host", h.dbHost, "err", err)
		return c.JSON(http.StatusInternalServerError, Response{
			Status:  "ERROR",
			DBHost:  h.dbHost,
			Error:   err.Error(),
			Message: "Falha ao conectar ao Banco de Dados. Verifique o serviço 'db'.",
		})
	}
	return c.JSON(http.StatusOK, Response{
		Status:  "OK",
		DBHost:  h.dbHost,
		Message: "Conexão bem-sucedida com o Banco de Dados (PostgreSQL).",
	})
}

// RegisterRoutes mounts the banner and status routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.Home)
	e.GET("/status", h.Status)
}
