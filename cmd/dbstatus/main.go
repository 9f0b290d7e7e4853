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
	"service-gateway-go/internal/dbstatus"
	"service-gateway-go/internal/middleware"
)

type cli struct {
	DBHost       string        `kong:"name='db-host',default='db',help='PostgreSQL host[:port].',env='DB_HOST'"`
	DBName       string        `kong:"name='db-name',default='postgres',help='Database name.',env='POSTGRES_DB'"`
	DBUser       string        `kong:"name='db-user',default='postgres',help='Database user.',env='POSTGRES_USER'"`
	DBPassword   string        `kong:"name='db-password',help='Database password.',env='POSTGRES_PASSWORD'"`
	DBSSLMode    string        `kong:"name='db-sslmode',default='disable',enum='disable,allow,prefer,require,verify-ca,verify-full',help='PostgreSQL sslmode.',env='PGSSLMODE'"`
	Host         string        `kong:"default='0.0.0.0',help='Listen host.',env='HOST'"`
	Port         int           `kong:"short='p',default='5000',help='Listen port.',env='PORT'"`
	StartupDelay time.Duration `kong:"default='10s',help='Wait before serving so the database can start.',env='STARTUP_DELAY'"`
	LogLevel     string        `kong:"default='info',enum='debug,info,warn,error',help='Log level.',env='LOG_LEVEL'"`
}

func (c *cli) dbConfig() dbstatus.DBConfig {
	return dbstatus.DBConfig{
		Host:     c.DBHost,
		Name:     c.DBName,
		User:     c.DBUser,
		Password: c.DBPassword,
		SSLMode:  c.DBSSLMode,
	}
}

func main() {
	var c cli
	kong.Parse(&c,
		kong.Name("dbstatus"),
		kong.Description("Web service reporting PostgreSQL connectivity."),
	)

	fx.New(
		fx.StartTimeout(c.StartupDelay+15*time.Second),
		fx.Provide(
			func() *cli { return &c },
			func(c *cli) *slog.Logger {
				return config.NewLogger(config.LogConfig{Level: c.LogLevel, Format: "json"}, os.Stdout)
			},
			func(c *cli) dbstatus.Pinger { return dbstatus.NewChecker(c.dbConfig()) },
			func(c *cli, p dbstatus.Pinger, logger *slog.Logger) *dbstatus.Handler {
				return dbstatus.NewHandler(p, c.DBHost, logger)
			},
			newEcho,
		),
		fx.Invoke(dbstatus.RegisterRoutes, startServer),
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

func startServer(lc fx.Lifecycle, e *echo.Echo, c *cli, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if c.StartupDelay > 0 {
				logger.Info("waiting for database", "delay", c.StartupDelay)
				select {
				case <-time.After(c.StartupDelay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			addr := net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("bind %s: %w", addr, err)
			}
			logger.Info("starting dbstatus", "addr", addr, "db_host", c.DBHost)
			go func() {
				if err := e.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down dbstatus")
			return e.Shutdown(ctx)
		},
	})
}
