// Package checkout hands the cart off to the external payment flow.
// Payment itself is not implemented here: the handoff exposes the cart
// lines and total, creates a pending order, and points the client at
// the external checkout URL.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/example/atelier-shop/internal/cart"
	"github.com/example/atelier-shop/internal/order"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// Handoff is the contract handed to the external checkout flow.
type Handoff struct {
	OrderID     string          `json:"order_id"`
	Items       []cart.Item     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	RedirectURL string          `json:"redirect_url"`
}

// Service builds checkout handoffs.
type Service struct {
	orders      *order.Service
	checkoutURL string
	currency    string
}

func NewService(orders *order.Service, checkoutURL, currency string) *Service {
	return &Service{orders: orders, checkoutURL: checkoutURL, currency: currency}
}

// Begin snapshots the cart state into a pending order and returns the
// redirect payload. An empty cart is rejected before any order exists.
func (s *Service) Begin(ctx context.Context, state cart.State, userID, email string) (*Handoff, error) {
	if len(state.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]order.Item, len(state.Items))
	for i, line := range state.Items {
		items[i] = order.Item{
			ProductID: line.ID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}

	o, err := s.orders.Place(ctx, userID, email, items)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return &Handoff{
		OrderID:     o.ID,
		Items:       state.Items,
		Total:       o.Total,
		Currency:    s.currency,
		RedirectURL: s.redirectURL(o.ID),
	}, nil
}

func (s *Service) redirectURL(orderID string) string {
	u, err := url.Parse(s.checkoutURL)
	if err != nil {
		return s.checkoutURL
	}
	q := u.Query()
	q.Set("order", orderID)
	u.RawQuery = q.Encode()
	return u.String()
}
