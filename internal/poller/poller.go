// Package poller repeatedly fetches a URL and logs what comes back.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"service-gateway-go/internal/model"
)

// Getter performs one GET against a URL.
type Getter interface {
	Get(ctx context.Context, target, url string) (*model.UpstreamResponse, error)
}

// Poller fetches url every interval until its context is cancelled.
// Failed polls are logged and never stop the loop.
type Poller struct {
	getter   Getter
	url      string
	interval time.Duration
	logger   *slog.Logger
}

// ErrInvalidInterval is returned by New for a zero or negative interval.
var ErrInvalidInterval = errors.New("poll interval must be positive")

// New creates a Poller.
func New(g Getter, url string, interval time.Duration, logger *slog.Logger) (*Poller, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w; got %s", ErrInvalidInterval, interval)
	}
	return &Poller{
		getter:   g,
		url:      url,
		interval: interval,
		logger:   logger.With("component", "poller"),
	}, nil
}

// Run polls immediately and then on every tick. It returns ctx.Err() once ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Poll(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll performs a single fetch and logs the outcome.
func (p *Poller) Poll(ctx context.Context) {
	resp, err := p.getter.Get(ctx, "poll", p.url)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("poll failed", "url", p.url, "err", err)
		return
	}
	p.logger.Info("poll response",
		"url", p.url,
		"status", resp.StatusCode,
		"body", string(resp.Body),
	)
}
