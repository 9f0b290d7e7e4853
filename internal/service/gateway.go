// Package service implements the gateway's dispatch and report logic.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"service-gateway-go/internal/client"
	"service-gateway-go/internal/model"
	"service-gateway-go/internal/report"
	"service-gateway-go/internal/route"
)

// Upstream performs one GET against an upstream URL.
type Upstream interface {
	Get(ctx context.Context, target, url string) (*model.UpstreamResponse, error)
}

// GatewayService resolves routes and calls the upstream behind them.
// It holds no per-request state.
type GatewayService struct {
	upstream Upstream
	routes   *route.Table
	logger   *slog.Logger
	now      func() time.Time
}

// NewGatewayService creates a GatewayService.
func NewGatewayService(u Upstream, routes *route.Table, logger *slog.Logger) *GatewayService {
	return &GatewayService{
		upstream: u,
		routes:   routes,
		logger:   logger.With("component", "gateway_service"),
		now:      time.Now,
	}
}

// Fetch calls the upstream registered under name and returns its response.
// Upstream 4xx/5xx responses are returned as-is; only transport failures and
// non-JSON bodies produce an *UpstreamError.
func (s *GatewayService) Fetch(ctx context.Context, name string) (*model.UpstreamResponse, error) {
	_, resp, err := s.fetch(ctx, name)
	return resp, err
}

// CombinedData fetches the members payload and turns it into a report.
func (s *GatewayService) CombinedData(ctx context.Context) (*model.CombinedReport, error) {
	r, resp, err := s.fetch(ctx, route.Members)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &UpstreamError{
			Kind:  KindBadStatus,
			Route: r.Name,
			URL:   r.URL(),
			Err:   fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	lines, err := report.Build(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Kind: KindInvalidPayload, Route: r.Name, URL: r.URL(), Err: err}
	}

	return &model.CombinedReport{
		Status:      model.ReportStatusSuccess,
		Source:      r.URL(),
		ProcessedAt: float64(s.now().UnixMicro()) / 1e6,
		Report:      lines,
	}, nil
}

func (s *GatewayService) fetch(ctx context.Context, name string) (model.Route, *model.UpstreamResponse, error) {
	r, ok := s.routes.Lookup(name)
	if !ok {
		return model.Route{}, nil, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	target := r.URL()

	resp, err := s.upstream.Get(ctx, r.Name, target)
	if err != nil {
		kind := KindUnreachable
		if errors.Is(err, client.ErrBodyTooLarge) {
			kind = KindInvalidPayload
		}
		return r, nil, &UpstreamError{Kind: kind, Route: r.Name, URL: target, Err: err}
	}

	if !json.Valid(resp.Body) {
		s.logger.Warn("upstream returned non-JSON body",
			"route", r.Name,
			"status", resp.StatusCode,
			"content_type", resp.ContentType,
		)
		return r, nil, &UpstreamError{Kind: KindInvalidPayload, Route: r.Name, URL: target, Err: errInvalidJSON}
	}

	return r, resp, nil
}
