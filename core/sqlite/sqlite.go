// Package sqlite opens SQLite databases through one of two interchangeable
// drivers:
//
//   - Default: pure Go modernc.org/sqlite (driver name "sqlite")
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3 ("sqlite3")
//
// Use Open() instead of sql.Open() so the right driver and connection
// pragmas are applied.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

type config struct {
	busyTimeout int
	foreignKeys bool
	wal         bool
	mkdirAll    bool
	readOnly    bool
}

// Option customises Open.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithoutForeignKeys disables PRAGMA foreign_keys.
func WithoutForeignKeys() Option { return func(c *config) { c.foreignKeys = false } }

// WithoutWAL keeps the default rollback journal.
func WithoutWAL() Option { return func(c *config) { c.wal = false } }

// WithMkdirAll creates the parent directory of the database file.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// ReadOnly opens the database with mode=ro.
func ReadOnly() Option { return func(c *config) { c.readOnly = true } }

// Open opens a SQLite database and applies pragmas. The pool is limited to a
// single connection: pragmas such as foreign_keys are per connection, and
// ":memory:" databases are per connection too.
func Open(path string, opts ...Option) (*sql.DB, error) {
	cfg := config{busyTimeout: 10_000, foreignKeys: true, wal: true}
	for _, o := range opts {
		o(&cfg)
	}

	memory := path == ":memory:"
	if cfg.mkdirAll && !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}

	dsn := path
	if cfg.readOnly {
		dsn = "file:" + path + "?mode=ro"
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	fk := "OFF"
	if cfg.foreignKeys {
		fk = "ON"
	}
	pragmas := []string{
		"PRAGMA foreign_keys = " + fk,
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
	}
	if cfg.wal && !memory && !cfg.readOnly {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	return db, nil
}

// OpenReadOnly opens a SQLite database in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	return Open(path, ReadOnly())
}

// MustOpen opens a SQLite database and panics on error.
// Intended for tests and initialization code.
func MustOpen(path string, opts ...Option) *sql.DB {
	db, err := Open(path, opts...)
	if err != nil {
		panic(fmt.Sprintf("sqlite: failed to open %s: %v", path, err))
	}
	return db
}

// IsConstraint reports whether err is a SQLite constraint violation
// (UNIQUE, FOREIGN KEY, NOT NULL, CHECK) and returns the driver's code.
func IsConstraint(err error) (int, bool) {
	return constraintCode(err)
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
