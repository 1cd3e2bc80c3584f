// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

// Package database provides SQLite-backed persistence for profiles, posts,
// follow edges, events, and marketplace products, and implements the feed
// engine's DataProvider query surface.
//
// Schema management uses golang-migrate with embedded migrations; the
// database is migrated to the latest version on startup.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // SQLite driver registration

	"github.com/muralsocial/mural/internal/config"
	"github.com/muralsocial/mural/internal/logging"
	"github.com/muralsocial/mural/internal/metrics"
)

// Sentinel errors returned by query methods.
var (
	// ErrNotFound indicates the requested row does not exist or is
	// soft-deleted.
	ErrNotFound = errors.New("database: not found")

	// ErrDuplicate indicates a uniqueness violation (handle already
	// taken, edge already present, post already liked).
	ErrDuplicate = errors.New("database: duplicate")
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the SQLite connection and provides data access methods.
// All methods are safe for concurrent use; SQLite serializes writes
// internally and the busy timeout absorbs short write contention.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database, applies pending migrations, and returns a ready
// connection. The parent directory of the database file is created if
// missing.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", cfg.Path, cfg.BusyTimeout.Milliseconds())
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single writer connection sidesteps SQLITE_BUSY under write load.
	conn.SetMaxOpenConns(1)

	if err := runMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.Info().Str("path", cfg.Path).Msg("Database migrated and ready")

	return &DB{conn: conn, cfg: cfg}, nil
}

// runMigrations applies all pending embedded migrations.
func runMigrations(conn *sql.DB) error {
	dbInstance, err := sqlite3.WithInstance(conn, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	srcInstance, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcInstance, "sqlite3", dbInstance)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// trackQuery records query duration metrics for the given logical
// operation and table.
func trackQuery(operation, table string, start time.Time) {
	metrics.RecordDBQuery(operation, table, time.Since(start))
}
