package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/pressly/goose/v3"

	"github.com/eventix/eventix-be/internal/config"
	"github.com/eventix/eventix-be/internal/database/migrations"
)

// maxPoolSize bounds the connection pool, matching the deployment's
// historical limit.
const maxPoolSize = 10

// Connect ensures the configured database exists and returns a pooled
// handle to it. The handle is owned by the caller and closed at shutdown.
func Connect(cfg *config.Config) (*sql.DB, error) {
	if err := ensureDatabaseExists(cfg); err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN(cfg.MySQL.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxPoolSize)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// ensureDatabaseExists creates the database on a short-lived, database-less
// connection so that a fresh MySQL server works out of the box.
func ensureDatabaseExists(cfg *config.Config) error {
	conn, err := sql.Open("mysql", cfg.MySQL.DSN(""))
	if err != nil {
		return fmt.Errorf("failed to open server connection: %w", err)
	}
	defer conn.Close()

	_, err = conn.Exec(fmt.Sprintf(
		"CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
		cfg.MySQL.Database,
	))
	if err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.MySQL.Database, err)
	}
	return nil
}

// Migrate applies the embedded schema migrations in order. Goose records
// applied versions in goose_db_version, so running this on every start is a
// no-op once the schema is current.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
