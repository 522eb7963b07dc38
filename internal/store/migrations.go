package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// migrate applies the schema. Statements are idempotent; ALTER TABLE ADD
// COLUMN failures for existing columns are treated as no-ops so the list
// can grow append-only.
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'admin',
			is_active INTEGER NOT NULL DEFAULT 1,
			last_signed_in DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			open_id TEXT UNIQUE NOT NULL,
			name TEXT,
			email TEXT,
			login_method TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			last_signed_in DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS news_categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			slug TEXT UNIQUE NOT NULL,
			color TEXT NOT NULL DEFAULT '#6B7280',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS news (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT UNIQUE NOT NULL,
			content TEXT NOT NULL,
			excerpt TEXT,
			thumbnail_url TEXT,
			category TEXT NOT NULL DEFAULT '',
			is_published INTEGER NOT NULL DEFAULT 0,
			published_at DATETIME,
			author_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS jobs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT UNIQUE NOT NULL,
			description TEXT NOT NULL,
			requirements TEXT,
			location TEXT,
			employment_type TEXT NOT NULL,
			salary_range TEXT,
			is_published INTEGER NOT NULL DEFAULT 0,
			published_at DATETIME,
			closing_date DATETIME,
			author_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			admin_id INTEGER NOT NULL,
			admin_email TEXT NOT NULL,
			action TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			resource_id INTEGER,
			details TEXT,
			ip_address TEXT,
			user_agent TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_news_published ON news(is_published, published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_published ON jobs(is_published, published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_admin ON audit_logs(admin_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at)`,
	}

	for _, m := range migrations {
		if s.driver == "mysql" {
			m = toMySQL(m)
		}
		if _, err := s.db.Exec(m); err != nil {
			if ignorableMigrationError(err) {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ignorableMigrationError reports whether a migration statement failed only
// because it already ran. MySQL has no IF NOT EXISTS for indexes (toMySQL
// strips the guard), so on restart the index statements fail with 1061;
// 1060 covers re-added columns. SQLite only exposes message text for the
// same cases.
func ignorableMigrationError(err error) bool {
	var my *mysql.MySQLError
	if errors.As(err, &my) {
		switch my.Number {
		case 1060, 1061: // ER_DUP_FIELDNAME, ER_DUP_KEYNAME
			return true
		}
	}
	return strings.Contains(err.Error(), "duplicate column")
}

// toMySQL rewrites the SQLite-flavored DDL for MySQL. Only the constructs
// actually used above are handled.
func toMySQL(stmt string) string {
	stmt = strings.ReplaceAll(stmt, "INTEGER PRIMARY KEY AUTOINCREMENT", "BIGINT PRIMARY KEY AUTO_INCREMENT")
	stmt = strings.ReplaceAll(stmt, "TEXT UNIQUE NOT NULL", "VARCHAR(320) UNIQUE NOT NULL")
	stmt = strings.ReplaceAll(stmt, "CREATE INDEX IF NOT EXISTS", "CREATE INDEX")
	return stmt
}
