// Package dbstatus reports whether the PostgreSQL database is reachable.
package dbstatus

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers the postgres driver
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN returns the connection URL for lib/pq.
func (c DBConfig) DSN() string {
	q := url.Values{}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	q.Set("sslmode", sslmode)
	q.Set("connect_timeout", "5")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host,
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Pinger checks database connectivity.
type Pinger interface {
	Check(ctx context.Context) error
}

// Checker opens a fresh connection on every check.
type Checker struct {
	dsn string
}

// NewChecker creates a Checker for cfg.
func NewChecker(cfg DBConfig) *Checker {
	return &Checker{dsn: cfg.DSN()}
}

// Check connects, pings and closes.
func (c *Checker) Check(ctx context.Context) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	return db.Close()
}
