// Package accesslog records container start-ups in a SQLite table.
package accesslog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

const schema = `
CREATE TABLE IF NOT EXISTS access_logs (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT,
    message   TEXT
);
`

// TimeLayout is the layout of Entry.Timestamp.
const TimeLayout = "2006-01-02 15:04:05"

// Entry is one row of access_logs.
type Entry struct {
	ID        int64  `db:"id"`
	Timestamp string `db:"timestamp"`
	Message   string `db:"message"`
}

// Open creates the parent directory of path if needed, opens the SQLite
// database and ensures the access_logs table exists.
func Open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// Store reads and writes access log entries.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a Store on an opened database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Record inserts an entry stamped with at and returns it with its ID.
func (s *Store) Record(ctx context.Context, at time.Time) (*Entry, error) {
	ts := at.Format(TimeLayout)
	e := &Entry{
		Timestamp: ts,
		Message:   "Container acessado em " + ts,
	}

	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO access_logs (timestamp, message) VALUES (:timestamp, :message)`, e)
	if err != nil {
		return nil, fmt.Errorf("inserting access log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	e.ID = id
	return e, nil
}

// List returns every entry ordered by ID.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.db.SelectContext(ctx, &entries,
		`SELECT id, timestamp, message FROM access_logs ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing access logs: %w", err)
	}
	return entries, nil
}
