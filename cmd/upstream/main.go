package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"service-gateway-go/internal/config"
	"service-gateway-go/internal/middleware"
	"service-gateway-go/internal/upstream"
)

type cli struct {
	Dataset   string `kong:"required,help='Dataset to serve: users|orders|members.',env='DATASET'"`
	Host      string `kong:"default='0.0.0.0',help='Listen host.',env='HOST'"`
	Port      int    `kong:"short='p',default='5000',help='Listen port.',env='PORT'"`
	LogLevel  string `kong:"default='info',enum='debug,info,warn,error',help='Log level.',env='LOG_LEVEL'"`
	LogFormat string `kong:"default='json',enum='json,text',help='Log format.',env='LOG_FORMAT'"`
}

func main() {
	var c cli
	kong.Parse(&c,
		kong.Name("upstream"),
		kong.Description("Serves one static dataset for the gateway to route to."),
	)

	fx.New(
		fx.Provide(
			func() *cli { return &c },
			func(c *cli) *slog.Logger {
				return config.NewLogger(config.LogConfig{Level: c.LogLevel, Format: c.LogFormat}, os.Stdout)
			},
			func(c *cli) (upstream.Dataset, error) { return upstream.Lookup(c.Dataset) },
			upstream.NewHandler,
			newEcho,
		),
		fx.Invoke(upstream.RegisterRoutes, startServer),
	).Run()
}

func newEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = 10 * time.Second

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	return e
}

func startServer(lc fx.Lifecycle, e *echo.Echo, c *cli, ds upstream.Dataset, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			addr := net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("bind %s: %w", addr, err)
			}
			logger.Info("starting upstream", "addr", addr, "dataset", ds.Name, "path", ds.Path)
			go func() {
				if err := e.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down upstream")
			return e.Shutdown(ctx)
		},
	})
}
