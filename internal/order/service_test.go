package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ Mocks ============

type mockRepo struct {
	orders        map[string]*Order
	created       []*Order
	statusUpdates []string
	updateErr     map[string]error
}

func newMockRepo() *mockRepo {
	return &mockRepo{orders: map[string]*Order{}, updateErr: map[string]error{}}
}

func (m *mockRepo) Order(ctx context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (m *mockRepo) List(ctx context.Context, userID string) ([]Order, error) {
	return nil, nil
}

func (m *mockRepo) Create(ctx context.Context, o *Order) error {
	m.created = append(m.created, o)
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	if err := m.updateErr[id]; err != nil {
		return err
	}
	m.statusUpdates = append(m.statusUpdates, id)
	m.orders[id].Status = status
	return nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============ Place ============

func TestPlaceRecomputesTotal(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	o, err := svc.Place(context.Background(), "user-1", "anna@example.com", []Item{
		{ProductID: "p1", Title: "Blue Nocturne", UnitPrice: money("1200.00"), Quantity: 2},
		{ProductID: "p2", Title: "Red Study", UnitPrice: money("800.00"), Quantity: 1},
	})
	require.NoError(t, err)

	assert.True(t, o.Total.Equal(money("3200.00")))
	assert.Equal(t, StatusPending, o.Status)
	assert.NotEmpty(t, o.ID)
	require.Len(t, repo.created, 1)
}

func TestPlaceRejectsEmptyOrder(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	_, err := svc.Place(context.Background(), "user-1", "anna@example.com", nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

// ============ UpdateStatus ============

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	err := svc.UpdateStatus(context.Background(), "o1", Status("REFUNDED"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusFreezesFinalOrders(t *testing.T) {
	repo := newMockRepo()
	repo.orders["o1"] = &Order{ID: "o1", Status: StatusDelivered}
	svc := NewService(repo, nil)

	err := svc.UpdateStatus(context.Background(), "o1", StatusShipped)
	assert.ErrorIs(t, err, ErrAlreadyFinished)
}

func TestUpdateStatusMovesOrder(t *testing.T) {
	repo := newMockRepo()
	repo.orders["o1"] = &Order{ID: "o1", Status: StatusPending}
	svc := NewService(repo, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), "o1", StatusPaid))
	assert.Equal(t, StatusPaid, repo.orders["o1"].Status)
}

// ============ BulkUpdateStatus ============

func TestBulkUpdateStatusStopsAtFirstError(t *testing.T) {
	repo := newMockRepo()
	repo.orders["o1"] = &Order{ID: "o1", Status: StatusPending}
	repo.orders["o2"] = &Order{ID: "o2", Status: StatusPending}
	repo.orders["o3"] = &Order{ID: "o3", Status: StatusPending}
	repo.updateErr["o2"] = errors.New("connection reset")
	svc := NewService(repo, nil)

	updated, err := svc.BulkUpdateStatus(context.Background(), []string{"o1", "o2", "o3"}, StatusShipped)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "order o2")
	assert.Equal(t, 1, updated)
	// o3 was never attempted.
	assert.Equal(t, []string{"o1"}, repo.statusUpdates)
}

func TestBulkUpdateStatusAllSucceed(t *testing.T) {
	repo := newMockRepo()
	repo.orders["o1"] = &Order{ID: "o1", Status: StatusPending}
	repo.orders["o2"] = &Order{ID: "o2", Status: StatusPaid}
	svc := NewService(repo, nil)

	updated, err := svc.BulkUpdateStatus(context.Background(), []string{"o1", "o2"}, StatusShipped)

	require.NoError(t, err)
	assert.Equal(t, 2, updated)
}
