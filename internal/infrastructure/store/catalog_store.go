package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/atelier-shop/internal/catalog"
	"github.com/lib/pq"
)

// CatalogStore implements catalog.Repository on PostgreSQL.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.image_url,
	p.medium, p.size, p.sku, COALESCE(p.category_id::text, ''), COALESCE(c.name, ''),
	p.featured, p.is_active, p.stock_quantity, p.low_stock_threshold, p.created_at, p.updated_at`

const productJoin = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

func (s *CatalogStore) Product(ctx context.Context, id string) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+productJoin+` WHERE p.id = $1`, id)
	return scanProduct(row)
}

func (s *CatalogStore) ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+productJoin+` WHERE p.slug = $1`, slug)
	return scanProduct(row)
}

func (s *CatalogStore) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := `SELECT ` + productColumns + productJoin + ` WHERE 1=1`
	args := []any{}

	if filter.ActiveOnly {
		query += ` AND p.is_active`
	}
	if filter.Featured {
		query += ` AND p.featured`
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.description ILIKE $%d)`, len(args), len(args))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(` AND p.category_id = $%d`, len(args))
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *CatalogStore) CreateProduct(ctx context.Context, p *catalog.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, slug, description, price, image_url, medium, size, sku,
			category_id, featured, is_active, stock_quantity, low_stock_threshold, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.ImageURL, p.Medium, p.Size, p.SKU,
		p.CategoryID, p.Featured, p.IsActive, p.StockQuantity, p.LowStockThreshold, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return catalog.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct writes the catalog fields only. The stock counter is
// owned by the inventory ledger and is deliberately not touched here.
func (s *CatalogStore) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $1, slug = $2, description = $3, price = $4, image_url = $5,
			medium = $6, size = $7, sku = $8, category_id = NULLIF($9, '')::uuid,
			featured = $10, is_active = $11, low_stock_threshold = $12, updated_at = NOW()
		 WHERE id = $13`,
		p.Name, p.Slug, p.Description, p.Price, p.ImageURL,
		p.Medium, p.Size, p.SKU, p.CategoryID,
		p.Featured, p.IsActive, p.LowStockThreshold, p.ID,
	)
	if isUniqueViolation(err) {
		return catalog.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRow(res, catalog.ErrProductNotFound)
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireRow(res, catalog.ErrProductNotFound)
}

func (s *CatalogStore) Category(ctx context.Context, id string) (*catalog.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, description, is_active, created_at, updated_at
		 FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, description, is_active, created_at, updated_at
		 FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []catalog.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CatalogStore) CreateCategory(ctx context.Context, c *catalog.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, slug, description, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Slug, c.Description, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return catalog.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *CatalogStore) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, slug = $2, description = $3, is_active = $4, updated_at = NOW()
		 WHERE id = $5`,
		c.Name, c.Slug, c.Description, c.IsActive, c.ID,
	)
	if isUniqueViolation(err) {
		return catalog.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRow(res, catalog.ErrCategoryNotFound)
}

func (s *CatalogStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRow(res, catalog.ErrCategoryNotFound)
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ImageURL,
		&p.Medium, &p.Size, &p.SKU, &p.CategoryID, &p.CategoryName,
		&p.Featured, &p.IsActive, &p.StockQuantity, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

func scanCategory(row rowScanner) (*catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
