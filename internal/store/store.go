// Package store persists the relational document model over SQLite or
// PostgreSQL through sqlx. Canonical dictionaries (books, chapters, verses,
// styles, Strong's codes) are written with single-statement upserts; every
// other table is append-only per ingestion run.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/sqlite"
	"github.com/FocuswithJustin/bibleinsight/core/versification"
)

// Dialect selects the SQL backend.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func init() {
	// modernc registers "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// ParseDialect maps a configuration value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}
	return "", errors.NewValidation("database.driver", fmt.Sprintf("unknown driver %q", s))
}

// Store is a handle on the ingestion database.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

// Open connects to the database named by dsn. For SQLite the dsn is a file
// path (parent directories are created) or ":memory:".
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	switch dialect {
	case SQLite:
		db, err := sqlite.Open(dsn, sqlite.WithMkdirAll())
		if err != nil {
			return nil, err
		}
		return New(sqlx.NewDb(db, sqlite.DriverName()), SQLite), nil
	case Postgres:
		db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "store: connect postgres")
		}
		return New(db, Postgres), nil
	}
	return nil, errors.NewUnsupported("database dialect", string(dialect))
}

// New wraps an existing connection.
func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the underlying handle for read queries.
func (s *Store) DB() *sqlx.DB { return s.db }

// Dialect returns the backend in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Migrate creates the schema if absent and seeds the canonical book table.
// It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range statements(schemaFor(s.dialect)) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "store: migrate")
		}
	}
	return s.InTx(ctx, func(tx *Tx) error {
		for _, b := range versification.Books {
			if _, err := tx.UpsertBook(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

// InTx runs fn in a transaction, committing when fn returns nil and rolling
// back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "store: begin")
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapError("commit", "", err)
	}
	return nil
}

// Tx carries the writes of one unit of work, normally one book.
type Tx struct {
	tx *sqlx.Tx
}

// insertID runs an INSERT ... RETURNING id statement written with "?"
// placeholders.
func (t *Tx) insertID(ctx context.Context, table, query string, args ...any) (int64, error) {
	var id int64
	if err := t.tx.QueryRowxContext(ctx, t.tx.Rebind(query), args...).Scan(&id); err != nil {
		return 0, mapError("insert "+table, table, err)
	}
	return id, nil
}

func (t *Tx) exec(ctx context.Context, table, query string, args ...any) error {
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...); err != nil {
		return mapError("write "+table, table, err)
	}
	return nil
}

func (t *Tx) lookupID(ctx context.Context, table, query string, args ...any) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRowxContext(ctx, t.tx.Rebind(query), args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, mapError("lookup "+table, table, err)
	}
	return id, true, nil
}

// nullID turns a zero id into SQL NULL.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
