package cart

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Store persists the cart item list under a single cart key. Only the
// items are stored; totals are derived and recomputed on load.
type Store interface {
	Load(ctx context.Context, key string) ([]Item, error)
	Save(ctx context.Context, key string, items []Item) error
}

// Notifier receives user-facing messages emitted by the facade. The API
// layer maps these onto response payloads; the notifier never affects
// the outcome of an operation.
type Notifier interface {
	Notify(message, detail string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(message, detail string) {}

// Cart wraps the pure reducer with persistence and notifications. All
// mutations go through dispatch, which persists the item list after
// every action. Writes are last-write-wins: concurrent sessions on the
// same key are not coordinated.
type Cart struct {
	mu     sync.Mutex
	key    string
	store  Store
	notify Notifier
	state  State
}

// Open hydrates a cart from the store. A missing or corrupt snapshot
// yields an empty cart; hydration never fails the caller.
func Open(ctx context.Context, key string, store Store, notify Notifier) *Cart {
	if notify == nil {
		notify = NopNotifier{}
	}
	c := &Cart{key: key, store: store, notify: notify, state: Empty()}

	items, err := store.Load(ctx, key)
	if err != nil {
		log.Printf("[Cart] Failed to load cart %s, starting empty: %v", key, err)
		return c
	}
	c.state = Reduce(c.state, LoadCart{Items: items})
	return c
}

// State returns a snapshot of the current cart state.
func (c *Cart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AddItem adds one unit of the product to the cart. Stock sufficiency is
// the caller's contract: callers confirm requested quantity against
// available stock before invoking this, and the facade does not re-check.
func (c *Cart) AddItem(ctx context.Context, item ItemInput) {
	c.dispatch(ctx, AddItem{Item: item})
	c.notify.Notify("Added to cart", fmt.Sprintf("%s has been added to your cart.", item.Title))
}

// RemoveItem drops the line with the given product id. Removing an
// absent id is a no-op, not an error.
func (c *Cart) RemoveItem(ctx context.Context, id string) {
	c.dispatch(ctx, RemoveItem{ID: id})
	c.notify.Notify("Removed from cart", "")
}

// UpdateQuantity sets the line's quantity to an absolute value. A value
// of zero or less removes the line.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) {
	c.dispatch(ctx, UpdateQuantity{ID: id, Quantity: quantity})
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	c.dispatch(ctx, ClearCart{})
	c.notify.Notify("Cart cleared", "")
}

func (c *Cart) dispatch(ctx context.Context, action Action) {
	c.mu.Lock()
	c.state = Reduce(c.state, action)
	items := c.state.Items
	c.mu.Unlock()

	if err := c.store.Save(ctx, c.key, items); err != nil {
		log.Printf("[Cart] Failed to persist cart %s: %v", c.key, err)
	}
}
