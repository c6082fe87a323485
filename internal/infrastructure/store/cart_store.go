package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/atelier-shop/internal/cart"
)

// CartStore persists the cart item list as one JSONB row per cart key.
// Concurrent sessions on the same key are last-write-wins.
type CartStore struct {
	db *sql.DB
}

func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{db: db}
}

// Load returns the persisted items for a cart key. A missing row is an
// empty cart, not an error; a corrupt snapshot is reported so the
// facade can fall back to empty.
func (s *CartStore) Load(ctx context.Context, key string) ([]cart.Item, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT items FROM carts WHERE cart_key = $1`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var items []cart.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("corrupt cart snapshot: %w", err)
	}
	return items, nil
}

// Save upserts the cart's item list.
func (s *CartStore) Save(ctx context.Context, key string, items []cart.Item) error {
	if items == nil {
		items = []cart.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO carts (cart_key, items, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (cart_key) DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()`,
		key, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
