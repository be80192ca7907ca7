package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		image_urls TEXT NOT NULL,
		category_id CHAR(36) NULL,
		in_stock BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		INDEX idx_products_category (category_id),
		INDEX idx_products_created (created_at),
		CONSTRAINT chk_products_price CHECK (price >= 0),
		CONSTRAINT fk_products_category FOREIGN KEY (category_id)
			REFERENCES categories (id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admin_sessions (
		id CHAR(36) NOT NULL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		expires_at DATETIME(6) NOT NULL,
		revoked_at DATETIME(6) NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		image_urls TEXT NOT NULL,
		category_id VARCHAR(36) NULL REFERENCES categories (id) ON DELETE SET NULL,
		in_stock BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_created ON products (created_at)`,
	`CREATE TABLE IF NOT EXISTS admin_sessions (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ NULL
	)`,
}

// Schema returns the DDL statements for the dialect, in execution order.
func Schema(d Dialect) []string {
	if d == Postgres {
		return postgresSchema
	}
	return mysqlSchema
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	for i, stmt := range Schema(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database: migrate step %d: %w", i+1, err)
		}
	}
	slog.Info("database schema is up to date", "dialect", string(d))
	return nil
}
