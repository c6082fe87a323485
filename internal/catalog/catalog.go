package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("slug already in use")
)

// Product is a catalog entry. StockQuantity is owned by the inventory
// ledger: catalog edits never write it.
type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Slug              string          `json:"slug"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	ImageURL          string          `json:"image_url,omitempty"`
	Medium            string          `json:"medium,omitempty"`
	Size              string          `json:"size,omitempty"`
	SKU               string          `json:"sku,omitempty"`
	CategoryID        string          `json:"category_id,omitempty"`
	CategoryName      string          `json:"category_name,omitempty"`
	Featured          bool            `json:"featured"`
	IsActive          bool            `json:"is_active"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// Category groups products for browsing and filtering.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search     string
	CategoryID string
	Featured   bool
	ActiveOnly bool
}

// Repository is the catalog persistence boundary.
type Repository interface {
	Product(ctx context.Context, id string) (*Product, error)
	ProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	Category(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a display name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
