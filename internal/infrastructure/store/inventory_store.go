package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/atelier-shop/internal/inventory"
	"github.com/shopspring/decimal"
)

// InventoryStore implements inventory.Store on PostgreSQL. The movement
// ledger and the stock counter are updated inside a single transaction
// with the product row locked, so concurrent movements against the same
// product serialize and partial application is never observable.
type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

// ApplyMovement locks the product row, computes the new stock level via
// the pure transition, then writes the counter and the ledger row
// together. Any failure rolls the whole movement back.
func (s *InventoryStore) ApplyMovement(ctx context.Context, m *inventory.Movement) (*inventory.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`,
		m.ProductID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, inventory.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	next, err := inventory.Transition(current, m.Type, m.Quantity)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE products SET stock_quantity = $1, updated_at = NOW() WHERE id = $2`,
		next, m.ProductID,
	); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stock_movements (id, product_id, type, quantity, reason, notes, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ProductID, string(m.Type), m.Quantity, m.Reason, m.Notes, m.CreatedAt, m.CreatedBy,
	); err != nil {
		return nil, fmt.Errorf("failed to append movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit movement: %w", err)
	}

	return s.Item(ctx, m.ProductID)
}

const inventoryItemColumns = `p.id, p.name, p.sku, p.image_url, p.price,
	p.stock_quantity, p.low_stock_threshold, COALESCE(p.category_id::text, ''), p.is_active, p.updated_at`

// Item returns the inventory view for one product.
func (s *InventoryStore) Item(ctx context.Context, productID string) (*inventory.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inventoryItemColumns+` FROM products p WHERE p.id = $1`,
		productID,
	)
	item, err := scanInventoryItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, inventory.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory item: %w", err)
	}
	return item, nil
}

// List returns inventory items matching the filter, newest first. The
// stock-status filter is applied in SQL with the same boundaries as
// inventory.StatusFor.
func (s *InventoryStore) List(ctx context.Context, filter inventory.Filter) ([]inventory.Item, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM products p WHERE 1=1`
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.sku ILIKE $%d)`, len(args), len(args))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(` AND p.category_id = $%d`, len(args))
	}
	switch filter.Status {
	case inventory.StatusOutOfStock:
		query += ` AND p.stock_quantity = 0`
	case inventory.StatusLowStock:
		query += ` AND p.stock_quantity > 0 AND p.stock_quantity <= p.low_stock_threshold`
	case inventory.StatusInStock:
		query += ` AND p.stock_quantity > p.low_stock_threshold`
	}
	query += ` ORDER BY p.updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var items []inventory.Item
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Movements returns the newest movements, optionally scoped to one
// product.
func (s *InventoryStore) Movements(ctx context.Context, productID string, limit int) ([]inventory.Movement, error) {
	query := `SELECT id, product_id, type, quantity, reason, notes, created_at, created_by
		FROM stock_movements`
	args := []any{}
	if productID != "" {
		args = append(args, productID)
		query += ` WHERE product_id = $1`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []inventory.Movement
	for rows.Next() {
		var m inventory.Movement
		var typ string
		if err := rows.Scan(&m.ID, &m.ProductID, &typ, &m.Quantity, &m.Reason, &m.Notes, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		m.Type = inventory.MovementType(typ)
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// Stats recomputes the dashboard aggregates from the product and
// movement tables.
func (s *InventoryStore) Stats(ctx context.Context, recentWindow time.Duration) (*inventory.Stats, error) {
	stats := &inventory.Stats{TotalValue: decimal.Zero}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE stock_quantity > 0 AND stock_quantity <= low_stock_threshold),
			COUNT(*) FILTER (WHERE stock_quantity = 0),
			COALESCE(SUM(stock_quantity * price), 0)
		 FROM products`,
	).Scan(&stats.TotalProducts, &stats.LowStockItems, &stats.OutOfStockItems, &stats.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	since := time.Now().Add(-recentWindow)
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1`, since,
	).Scan(&stats.RecentChanges)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent movements: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInventoryItem(row rowScanner) (*inventory.Item, error) {
	var item inventory.Item
	if err := row.Scan(
		&item.ProductID, &item.Name, &item.SKU, &item.ImageURL, &item.Price,
		&item.StockQuantity, &item.LowStockThreshold, &item.CategoryID, &item.IsActive, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
