// Package storage keeps a journal of activation decisions in sqlite or
// PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"focus-warden/pkg/core"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"

	defaultConnectTimeout = 10 * time.Second
)

type DB struct {
	db     *sql.DB
	driver string
	log    core.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS decisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp DATETIME NOT NULL,
    action TEXT NOT NULL,
    window_id TEXT NOT NULL,
    window_class TEXT NOT NULL,
    allowed INTEGER NOT NULL,
    rule TEXT NOT NULL,
    request_time TEXT NOT NULL,
    against TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS decisions_timestamp ON decisions (timestamp);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS decisions (
    id BIGSERIAL PRIMARY KEY,
    timestamp TIMESTAMPTZ NOT NULL,
    action TEXT NOT NULL,
    window_id TEXT NOT NULL,
    window_class TEXT NOT NULL,
    allowed BOOLEAN NOT NULL,
    rule TEXT NOT NULL,
    request_time TEXT NOT NULL,
    against TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS decisions_timestamp ON decisions (timestamp);
`

// Entry is one journaled decision.
type Entry struct {
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Action      string    `json:"action" yaml:"action"`
	Window      string    `json:"window" yaml:"window"`
	Class       string    `json:"class" yaml:"class"`
	Allowed     bool      `json:"allowed" yaml:"allowed"`
	Rule        string    `json:"rule" yaml:"rule"`
	RequestTime string    `json:"request_time" yaml:"request_time"`
	Against     string    `json:"against,omitempty" yaml:"against,omitempty"`
}

// Open connects to dsn. A postgres:// or postgresql:// URL selects
// PostgreSQL; anything else is a sqlite file path.
func Open(dsn string, log core.Logger) (*DB, error) {
	if isPostgres(dsn) {
		return openPostgres(dsn, log)
	}
	return openSQLite(dsn, log)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openSQLite(path string, log core.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open(driverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Info("Opened activation journal", "driver", driverSQLite, "path", path)
	return &DB{db: db, driver: driverSQLite, log: log}, nil
}

func openPostgres(dsn string, log core.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	db, err := sql.Open(driverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Info("Opened activation journal", "driver", driverPostgres)
	return &DB{db: db, driver: driverPostgres, log: log}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// rebind rewrites ? placeholders for drivers that number them.
func (d *DB) rebind(query string) string {
	if d.driver != driverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *DB) Record(e Entry) error {
	query := d.rebind(`
		INSERT INTO decisions (
			timestamp, action, window_id, window_class,
			allowed, rule, request_time, against
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := d.db.Exec(query,
		e.Timestamp.UTC(), e.Action, e.Window, e.Class,
		e.Allowed, e.Rule, e.RequestTime, e.Against)
	if err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	d.log.Debug("Retrieving decisions from journal", "limit", limit)

	query := d.rebind(`
        SELECT timestamp, action, window_id, window_class,
               allowed, rule, request_time, against
        FROM decisions
        ORDER BY timestamp DESC, id DESC
        LIMIT ?
    `)

	rows, err := d.db.Query(query, limit)
	if err != nil {
		d.log.Error("Failed to query decisions", err)
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.Timestamp, &e.Action, &e.Window, &e.Class,
			&e.Allowed, &e.Rule, &e.RequestTime, &e.Against); err != nil {
			d.log.Error("Failed to scan decision", err)
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read decisions: %w", err)
	}

	d.log.Debug("Total decisions retrieved", "count", len(entries))
	return entries, nil
}

// Cleanup drops entries older than olderThan.
func (d *DB) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UTC()
	_, err := d.db.Exec(d.rebind("DELETE FROM decisions WHERE timestamp < ?"), cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup old decisions: %w", err)
	}
	return nil
}
