// Package store holds the PostgreSQL persistence for every domain:
// carts, inventory and its movement ledger, catalog, orders, settings,
// blog posts and users.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens a PostgreSQL connection pool and verifies it.
func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'CUSTOMER',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			medium TEXT NOT NULL DEFAULT '',
			size TEXT NOT NULL DEFAULT '',
			sku TEXT NOT NULL DEFAULT '',
			category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
			low_stock_threshold INTEGER NOT NULL DEFAULT 5 CHECK (low_stock_threshold >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			type TEXT NOT NULL CHECK (type IN ('IN', 'OUT', 'ADJUSTMENT')),
			quantity INTEGER NOT NULL CHECK (quantity > 0 OR (type = 'ADJUSTMENT' AND quantity = 0)),
			reason TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements (product_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS carts (
			cart_key TEXT PRIMARY KEY,
			items JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			items JSONB NOT NULL DEFAULT '[]',
			total NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS blog_posts (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			excerpt TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			cover_image TEXT NOT NULL DEFAULT '',
			published BOOLEAN NOT NULL DEFAULT FALSE,
			author_id TEXT NOT NULL DEFAULT '',
			like_count INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			published_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS post_likes (
			post_id UUID NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (post_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS product_reviews (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_name TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
			is_verified_purchase BOOLEAN NOT NULL DEFAULT FALSE,
			helpful_count INTEGER NOT NULL DEFAULT 0 CHECK (helpful_count >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (product_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_product_reviews_product ON product_reviews (product_id, status)`,
		`CREATE TABLE IF NOT EXISTS store_settings (
			id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			store_name TEXT NOT NULL,
			store_address TEXT NOT NULL DEFAULT '',
			store_phone TEXT NOT NULL DEFAULT '',
			store_email TEXT NOT NULL DEFAULT '',
			store_website TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT 'USD',
			enable_payment BOOLEAN NOT NULL DEFAULT TRUE,
			maintenance_mode BOOLEAN NOT NULL DEFAULT FALSE,
			logo_url TEXT NOT NULL DEFAULT '',
			instagram_url TEXT NOT NULL DEFAULT '',
			support_phone TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
