package inventory

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity   = errors.New("invalid movement quantity")
	ErrInvalidType       = errors.New("unknown movement type")
	ErrEmptyReason       = errors.New("reason is required")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
)

// MovementType classifies a stock movement. Quantity is recorded
// positive and the type carries the direction, except ADJUSTMENT where
// the quantity is the new absolute level and zero is a valid count.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// Movement is one audited change to a product's stock quantity.
type Movement struct {
	ID        string       `json:"id"`
	ProductID string       `json:"product_id"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Reason    string       `json:"reason"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	CreatedBy string       `json:"created_by"`
}

// StockStatus is derived from the stock quantity and the per-product
// low-stock threshold; it is never stored.
type StockStatus string

const (
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
	StatusLowStock   StockStatus = "LOW_STOCK"
	StatusInStock    StockStatus = "IN_STOCK"
)

// StatusFor classifies a stock level. Zero is out of stock, anything up
// to and including the threshold is low stock.
func StatusFor(stockQuantity, lowStockThreshold int) StockStatus {
	switch {
	case stockQuantity == 0:
		return StatusOutOfStock
	case stockQuantity <= lowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Transition computes the stock quantity after applying a movement.
// IN adds, OUT subtracts and is rejected when it would drive stock
// negative, ADJUSTMENT sets the absolute quantity. Input validation
// beyond the underflow check happens in ApplyMovement.
func Transition(current int, movementType MovementType, quantity int) (int, error) {
	switch movementType {
	case MovementIn:
		return current + quantity, nil
	case MovementOut:
		if quantity > current {
			return current, ErrInsufficientStock
		}
		return current - quantity, nil
	case MovementAdjustment:
		return quantity, nil
	}
	return current, ErrInvalidType
}

// Item is the admin inventory view over a product.
type Item struct {
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku,omitempty"`
	ImageURL          string          `json:"image_url,omitempty"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	CategoryID        string          `json:"category_id,omitempty"`
	IsActive          bool            `json:"is_active"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Status returns the derived stock status for the item.
func (i Item) Status() StockStatus {
	return StatusFor(i.StockQuantity, i.LowStockThreshold)
}

// Stats are the admin dashboard aggregates, recomputed on demand.
type Stats struct {
	TotalProducts   int             `json:"total_products"`
	LowStockItems   int             `json:"low_stock_items"`
	OutOfStockItems int             `json:"out_of_stock_items"`
	TotalValue      decimal.Decimal `json:"total_value"`
	RecentChanges   int             `json:"recent_changes"`
}

// Filter narrows inventory listings.
type Filter struct {
	Search     string
	CategoryID string
	Status     StockStatus
}
