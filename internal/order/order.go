package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidStatus   = errors.New("unknown order status")
	ErrAlreadyFinished = errors.New("order is already in a final state")
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Final reports whether the order can no longer change status.
func (s Status) Final() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Item is one ordered line, priced at order time.
type Item struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Order is a placed order.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Repository is the order persistence boundary.
type Repository interface {
	Order(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, userID string) ([]Order, error)
	Create(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id string, status Status) error
}

const EventOrderPlaced = "OrderPlaced"

// OrderPlaced is published to Kafka when an order is created.
type OrderPlaced struct {
	OrderID  string          `json:"order_id"`
	UserID   string          `json:"user_id"`
	Email    string          `json:"email"`
	Items    []Item          `json:"items"`
	Total    decimal.Decimal `json:"total"`
	PlacedAt time.Time       `json:"placed_at"`
}
