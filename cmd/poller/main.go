package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"service-gateway-go/internal/client"
	"service-gateway-go/internal/config"
	"service-gateway-go/internal/poller"
)

type cli struct {
	URL       string        `kong:"default='http://servidor:5000',help='URL to poll.',env='SERVER_URL'"`
	Interval  time.Duration `kong:"default='5s',help='Delay between polls.',env='POLL_INTERVAL'"`
	Timeout   int           `kong:"default='5',help='Per-request timeout in seconds.',env='POLL_TIMEOUT_SECONDS'"`
	LogLevel  string        `kong:"default='info',enum='debug,info,warn,error',help='Log level.',env='LOG_LEVEL'"`
	LogFormat string        `kong:"default='text',enum='json,text',help='Log format.',env='LOG_FORMAT'"`
}

// Validate is called by kong after parsing.
func (c *cli) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("--interval must be positive; got %s", c.Interval)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("--timeout must be positive; got %d", c.Timeout)
	}
	return nil
}

func main() {
	var c cli
	kong.Parse(&c,
		kong.Name("poller"),
		kong.Description("Fetches a URL at a fixed interval and logs the response."),
	)

	cfg := config.Default()
	cfg.Upstream.TimeoutSeconds = c.Timeout
	cfg.Log = config.LogConfig{Level: c.LogLevel, Format: c.LogFormat}
	logger := config.NewLogger(cfg.Log, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := poller.New(client.NewUpstreamClient(cfg, logger, nil), c.URL, c.Interval, logger)
	if err != nil {
		logger.Error("invalid poller settings", "err", err)
		os.Exit(1)
	}
	logger.Info("poller started", "url", c.URL, "interval", c.Interval)

	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("poller stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("poller stopped")
}
