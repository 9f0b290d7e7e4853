// Package model defines shared types for the gateway.
package model

import "strings"

// Route maps a public gateway path onto one upstream target.
type Route struct {
	Name    string
	BaseURL string
	Path    string
}

// URL returns the fully-qualified upstream URL for the route.
func (r Route) URL() string {
	if r.Path == "" {
		return r.BaseURL
	}
	return strings.TrimRight(r.BaseURL, "/") + r.Path
}

// UpstreamResponse is the buffered result of one upstream call.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorEnvelope is the JSON body of every gateway error response.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// ReportStatusSuccess is the status field of a successful CombinedReport.
const ReportStatusSuccess = "SUCCESS"

// CombinedReport is the response of the report route.
type CombinedReport struct {
	Status      string   `json:"status"`
	Source      string   `json:"source"`
	ProcessedAt float64  `json:"processed_at"`
	Report      []string `json:"report"`
}
