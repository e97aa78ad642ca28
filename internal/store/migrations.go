package store

import (
	"context"
	"fmt"
)

// dialect captures what differs between the supported databases.
type dialect struct {
	name      string
	driver    string // database/sql driver name
	returning bool   // INSERT ... RETURNING id
	lower     string // SQL function folding text to lower case for search
	schema    []string
}

var dialects = map[string]dialect{
	"sqlite": {
		name:      "sqlite",
		driver:    "sqlite",
		returning: true,             // 3.35+
		lower:     unicodeLowerFunc, // built-in LOWER folds ASCII only
		schema: []string{
			`CREATE TABLE IF NOT EXISTS accounts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				email TEXT UNIQUE NOT NULL,
				full_name TEXT NOT NULL DEFAULT '',
				hashed_password TEXT NOT NULL,
				is_active INTEGER NOT NULL DEFAULT 1,
				is_admin INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME
			)`,
			`CREATE TABLE IF NOT EXISTS sweets (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				description TEXT,
				category TEXT NOT NULL,
				price REAL NOT NULL,
				quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
				image_url TEXT,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sweets_name ON sweets(name)`,
			`CREATE INDEX IF NOT EXISTS idx_sweets_category ON sweets(category)`,
		},
	},
	"postgres": {
		name:      "postgres",
		driver:    "pgx",
		returning: true,
		lower:     "LOWER",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS accounts (
				id BIGSERIAL PRIMARY KEY,
				email TEXT UNIQUE NOT NULL,
				full_name TEXT NOT NULL DEFAULT '',
				hashed_password TEXT NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				is_admin BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ
			)`,
			`CREATE TABLE IF NOT EXISTS sweets (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				description TEXT,
				category VARCHAR(50) NOT NULL,
				price DOUBLE PRECISION NOT NULL,
				quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
				image_url TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sweets_name ON sweets(name)`,
			`CREATE INDEX IF NOT EXISTS idx_sweets_category ON sweets(category)`,
		},
	},
	"mysql": {
		name:   "mysql",
		driver: "mysql",
		lower:  "LOWER",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS accounts (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				email VARCHAR(255) NOT NULL UNIQUE,
				full_name VARCHAR(255) NOT NULL DEFAULT '',
				hashed_password VARCHAR(255) NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				is_admin BOOLEAN NOT NULL DEFAULT FALSE,
				created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
				updated_at DATETIME(6) NULL
			)`,
			`CREATE TABLE IF NOT EXISTS sweets (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				description TEXT NULL,
				category VARCHAR(50) NOT NULL,
				price DOUBLE NOT NULL,
				quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
				image_url TEXT NULL,
				created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
				updated_at DATETIME(6) NULL,
				INDEX idx_sweets_name (name),
				INDEX idx_sweets_category (category)
			)`,
		},
	},
}

func (s *Store) migrate(ctx context.Context) error {
	for _, m := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
