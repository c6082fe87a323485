package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ Mocks ============

type mockStore struct {
	items    []Item
	loadErr  error
	saveErr  error
	saved    [][]Item
	saveKeys []string
}

func (m *mockStore) Load(ctx context.Context, key string) ([]Item, error) {
	return m.items, m.loadErr
}

func (m *mockStore) Save(ctx context.Context, key string, items []Item) error {
	m.saveKeys = append(m.saveKeys, key)
	m.saved = append(m.saved, items)
	return m.saveErr
}

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(message, detail string) {
	m.messages = append(m.messages, message)
}

// ============ Open ============

func TestOpenHydratesFromStore(t *testing.T) {
	store := &mockStore{items: []Item{
		{ID: "p1", Title: "Blue Nocturne", UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 2},
	}}

	c := Open(context.Background(), "key-1", store, nil)

	state := c.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.ItemCount)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("2400.00")))
}

func TestOpenStartsEmptyOnLoadFailure(t *testing.T) {
	store := &mockStore{loadErr: errors.New("corrupt cart snapshot")}

	c := Open(context.Background(), "key-1", store, nil)

	state := c.State()
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.ItemCount)
	assert.True(t, state.Total.IsZero())
}

// ============ Mutations ============

func TestAddItemPersistsAndNotifies(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	c := Open(context.Background(), "key-1", store, notifier)

	c.AddItem(context.Background(), ItemInput{ID: "p1", Title: "Blue Nocturne", UnitPrice: decimal.RequireFromString("1200.00")})

	require.Len(t, store.saved, 1)
	require.Len(t, store.saved[0], 1)
	assert.Equal(t, "p1", store.saved[0][0].ID)
	assert.Equal(t, []string{"key-1"}, store.saveKeys)
	assert.Equal(t, []string{"Added to cart"}, notifier.messages)
}

func TestEveryMutationPersists(t *testing.T) {
	store := &mockStore{}
	c := Open(context.Background(), "key-1", store, nil)

	c.AddItem(context.Background(), ItemInput{ID: "p1", UnitPrice: decimal.RequireFromString("10.00")})
	c.UpdateQuantity(context.Background(), "p1", 3)
	c.RemoveItem(context.Background(), "p1")
	c.Clear(context.Background())

	assert.Len(t, store.saved, 4)
	assert.Empty(t, store.saved[3])
}

func TestSaveFailureDoesNotLoseState(t *testing.T) {
	store := &mockStore{saveErr: errors.New("connection refused")}
	c := Open(context.Background(), "key-1", store, nil)

	c.AddItem(context.Background(), ItemInput{ID: "p1", UnitPrice: decimal.RequireFromString("10.00")})

	// The in-memory state advanced even though the write failed.
	assert.Equal(t, 1, c.State().ItemCount)
}

func TestUpdateQuantityDoesNotNotify(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	c := Open(context.Background(), "key-1", store, notifier)

	c.AddItem(context.Background(), ItemInput{ID: "p1", UnitPrice: decimal.RequireFromString("10.00")})
	notifier.messages = nil

	c.UpdateQuantity(context.Background(), "p1", 2)

	assert.Empty(t, notifier.messages)
}
