package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour of the underlying connection
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DB wraps a database connection holding the key/value settings table
type DB struct {
	*sql.DB
	dialect Dialect
}

// DefaultDBPath returns the default database path (~/.sheetboard/sheetboard.db)
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".sheetboard", "sheetboard.db"), nil
}

// Open opens or creates the SQLite database
func Open(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return Wrap(sqlDB, SQLite)
}

// OpenDefault opens the database at the default path
func OpenDefault() (*DB, error) {
	path, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Wrap takes over an open connection and runs migrations on it
func Wrap(sqlDB *sql.DB, dialect Dialect) (*DB, error) {
	db := &DB{DB: sqlDB, dialect: dialect}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// Dialect returns the SQL flavour of the connection
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// GetSetting returns the value stored under key
func (db *DB) GetSetting(ctx context.Context, key string) (string, bool, error) {
	q := "SELECT value FROM settings WHERE key = ?"
	if db.dialect == Postgres {
		q = "SELECT value FROM settings WHERE key = $1"
	}

	var value string
	err := db.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting inserts or replaces the value stored under key
func (db *DB) PutSetting(ctx context.Context, key, value string) error {
	q := `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if db.dialect == Postgres {
		q = `INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx, q, key, value, now); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes key
func (db *DB) DeleteSetting(ctx context.Context, key string) error {
	q := "DELETE FROM settings WHERE key = ?"
	if db.dialect == Postgres {
		q = "DELETE FROM settings WHERE key = $1"
	}
	if _, err := db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
