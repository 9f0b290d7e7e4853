// Package route holds the gateway's immutable route table.
package route

import (
	"errors"
	"fmt"
	"net/url"

	"service-gateway-go/internal/config"
	"service-gateway-go/internal/model"
)

// Route names registered by the gateway.
const (
	Users   = "users"
	Orders  = "orders"
	Members = "members"
)

// Table maps route names to upstream targets. It is never mutated after
// construction, so concurrent lookups need no locking.
type Table struct {
	byName map[string]model.Route
	order  []string
}

// New builds the gateway route table from configuration.
func New(cfg *config.Config) (*Table, error) {
	return NewTable(
		model.Route{Name: Users, BaseURL: cfg.Services.UsersURL, Path: "/users"},
		model.Route{Name: Orders, BaseURL: cfg.Services.OrdersURL, Path: "/orders"},
		// SERVICE_A_URL already names the full resource URL.
		model.Route{Name: Members, BaseURL: cfg.Services.ServiceAURL},
	)
}

// NewTable builds a Table from the given routes, rejecting empty or duplicate
// names and base URLs that do not parse as absolute URLs.
func NewTable(routes ...model.Route) (*Table, error) {
	t := &Table{
		byName: make(map[string]model.Route, len(routes)),
		order:  make([]string, 0, len(routes)),
	}
	for _, r := range routes {
		if r.Name == "" {
			return nil, errors.New("route: empty name")
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("route: duplicate name %q", r.Name)
		}
		u, err := url.Parse(r.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("route %s: parse base URL: %w", r.Name, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("route %s: base URL %q is not absolute", r.Name, r.BaseURL)
		}
		t.byName[r.Name] = r
		t.order = append(t.order, r.Name)
	}
	return t, nil
}

// Lookup returns the route registered under name.
func (t *Table) Lookup(name string) (model.Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Routes returns a copy of all routes in registration order.
func (t *Table) Routes() []model.Route {
	out := make([]model.Route, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}
