package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/atelier-shop/internal/cart"
	"github.com/example/atelier-shop/internal/order"
)

type mockOrderRepo struct {
	created []*order.Order
}

func (m *mockOrderRepo) Order(ctx context.Context, id string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (m *mockOrderRepo) List(ctx context.Context, userID string) ([]order.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) Create(ctx context.Context, o *order.Order) error {
	m.created = append(m.created, o)
	return nil
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	return nil
}

func cartWith(items ...cart.Item) cart.State {
	return cart.Reduce(cart.Empty(), cart.LoadCart{Items: items})
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	svc := NewService(order.NewService(&mockOrderRepo{}, nil), "https://pay.example.com/session", "USD")

	_, err := svc.Begin(context.Background(), cart.Empty(), "user-1", "anna@example.com")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBeginPlacesPendingOrderAndBuildsRedirect(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(order.NewService(repo, nil), "https://pay.example.com/session", "USD")

	state := cartWith(
		cart.Item{ID: "p1", Title: "Blue Nocturne", UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 2},
		cart.Item{ID: "p2", Title: "Red Study", UnitPrice: decimal.RequireFromString("800.00"), Quantity: 1},
	)

	handoff, err := svc.Begin(context.Background(), state, "user-1", "anna@example.com")
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	placed := repo.created[0]
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, "anna@example.com", placed.Email)
	require.Len(t, placed.Items, 2)
	assert.Equal(t, "p1", placed.Items[0].ProductID)
	assert.Equal(t, 2, placed.Items[0].Quantity)

	assert.Equal(t, placed.ID, handoff.OrderID)
	assert.True(t, handoff.Total.Equal(decimal.RequireFromString("3200.00")))
	assert.Equal(t, "USD", handoff.Currency)
	assert.Equal(t, "https://pay.example.com/session?order="+placed.ID, handoff.RedirectURL)
}
