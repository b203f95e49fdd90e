// Package kv is a small durable key-value store backed by SQLite. Values are
// opaque JSON blobs keyed by name; callers own serialization.
package kv

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath and runs migrations.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// OpenMemory creates an in-memory store for testing.
func OpenMemory() (*DB, error) {
	return Open(":memory:")
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate() error {
	var version int
	err := d.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		const ddl = `
		CREATE TABLE IF NOT EXISTS collections (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`
		if _, err := d.db.Exec(ddl); err != nil {
			return err
		}
	}

	_, err = d.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

// Get returns the stored value for key. The second result is false when the
// key has never been set (or was removed).
func (d *DB) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := d.db.QueryRow(`SELECT value FROM collections WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (d *DB) Set(key string, value []byte) error {
	_, err := d.db.Exec(
		`INSERT INTO collections (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (d *DB) Remove(key string) error {
	if _, err := d.db.Exec(`DELETE FROM collections WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// DefaultDBPath returns ~/.config/pilltrack/pilltrack.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pilltrack", "pilltrack.db"), nil
}
