// Package store persists panel state (admins, users, content, audit logs)
// in an SQLite or MySQL-compatible database through sqlx.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Sentinel errors returned by the store. Callers branch on these with
// errors.Is; driver-specific error text never leaves this package.
var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means an insert or update violated a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
	// ErrUnavailable means the backing database could not be reached.
	ErrUnavailable = errors.New("database unavailable")
)

// Store wraps the database handle. It is safe for concurrent use; the
// underlying pool is managed by database/sql.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the configured database and runs migrations. Driver is
// "sqlite" or "mysql". For sqlite an empty DSN selects an in-memory database,
// which tests rely on.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "", "sqlite":
		driver = "sqlite"
		if dsn == "" {
			dsn = ":memory:?_journal_mode=WAL"
		} else if !strings.Contains(dsn, "?") {
			dsn += "?_journal_mode=WAL&_busy_timeout=5000"
		}
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("mysql driver requires a dsn")
		}
		if !strings.Contains(dsn, "parseTime") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable. Used by the readiness probe.
func (s *Store) Ping() error {
	if err := s.db.Ping(); err != nil {
		return ErrUnavailable
	}
	return nil
}

// translate maps driver errors to the store's sentinel errors. MySQL exposes
// typed errors; modernc sqlite only exposes message text, so the uniqueness
// check for it happens at this boundary and nowhere else.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}

	var my *mysql.MySQLError
	if errors.As(err, &my) {
		switch my.Number {
		case 1062: // ER_DUP_ENTRY
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		case 2002, 2003, 2006, 2013: // connection-level failures
			return fmt.Errorf("%s: %w", op, ErrUnavailable)
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	if strings.Contains(msg, "unable to open database") ||
		strings.Contains(msg, "connection refused") {
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	return fmt.Errorf("%s: %w", op, err)
}
