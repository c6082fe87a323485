package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/atelier-shop/internal/order"
)

// OrderStore implements order.Repository on PostgreSQL. Order lines are
// stored as a JSONB snapshot priced at order time.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Order(ctx context.Context, id string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, email, items, total, status, created_at, updated_at
		 FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

// List returns orders newest first, scoped to a user when userID is
// set.
func (s *OrderStore) List(ctx context.Context, userID string) ([]order.Order, error) {
	query := `SELECT id, user_id, email, items, total, status, created_at, updated_at FROM orders`
	args := []any{}
	if userID != "" {
		args = append(args, userID)
		query += ` WHERE user_id = $1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, email, items, total, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.UserID, o.Email, items, o.Total, string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return requireRow(res, order.ErrOrderNotFound)
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	var items []byte
	var status string
	err := row.Scan(&o.ID, &o.UserID, &o.Email, &items, &o.Total, &status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("corrupt order items: %w", err)
	}
	o.Status = order.Status(status)
	return &o, nil
}
