// Package storage provides persistence for ShootFlow run history.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
	path string
}

// Config for database initialization.
type Config struct {
	Path     string // Database file location
	InMemory bool   // In-memory database, for tests
}

// Open opens or creates the database and applies connection pragmas.
func Open(cfg Config) (*DB, error) {
	dsn := cfg.Path
	if cfg.InMemory {
		dsn = ":memory:?cache=shared"
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer. SQLite serializes writes anyway.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &DB{conn: conn, path: cfg.Path}, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn exposes the underlying sql.DB.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate brings the schema up to date.
func (db *DB) Migrate() error {
	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS automation_runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	trigger     TEXT    NOT NULL,
	succeeded   INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	results     TEXT    NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_automation_runs_trigger
	ON automation_runs(trigger);
CREATE INDEX IF NOT EXISTS idx_automation_runs_created
	ON automation_runs(created_at);

CREATE TABLE IF NOT EXISTS conversation_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	question    TEXT    NOT NULL,
	intent      TEXT    NOT NULL,
	confidence  REAL    NOT NULL,
	kit         TEXT    NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL
);
`
