package inventory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence boundary for the ledger. ApplyMovement must
// update the product's stock counter and append the movement row as one
// transaction: a ledger row without the counter update (or the reverse)
// must never be observable.
type Store interface {
	ApplyMovement(ctx context.Context, movement *Movement) (*Item, error)
	Item(ctx context.Context, productID string) (*Item, error)
	List(ctx context.Context, filter Filter) ([]Item, error)
	Movements(ctx context.Context, productID string, limit int) ([]Movement, error)
	Stats(ctx context.Context, recentWindow time.Duration) (*Stats, error)
}

// Publisher emits domain events after a movement commits. The event
// type names the payload; enveloping is the transport's concern.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

// Ledger validates and applies stock movements.
type Ledger struct {
	store     Store
	publisher Publisher
}

func NewLedger(store Store, publisher Publisher) *Ledger {
	return &Ledger{store: store, publisher: publisher}
}

// ApplyMovement records a stock movement for a product and returns the
// updated inventory item. Validation failures reject before any mutation;
// a failed transaction leaves both the ledger and the counter untouched.
func (l *Ledger) ApplyMovement(ctx context.Context, productID string, movementType MovementType, quantity int, reason, notes, actorID string) (*Item, *Movement, error) {
	if !movementType.Valid() {
		return nil, nil, ErrInvalidType
	}
	// IN and OUT need a positive quantity. An ADJUSTMENT records the
	// counted level, so zero is allowed there (a stock-take can find
	// nothing on the shelf).
	if quantity < 0 || (quantity == 0 && movementType != MovementAdjustment) {
		return nil, nil, ErrInvalidQuantity
	}
	if reason == "" {
		return nil, nil, ErrEmptyReason
	}

	movement := &Movement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      movementType,
		Quantity:  quantity,
		Reason:    reason,
		Notes:     notes,
		CreatedAt: time.Now(),
		CreatedBy: actorID,
	}

	item, err := l.store.ApplyMovement(ctx, movement)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to apply movement: %w", err)
	}

	if l.publisher != nil {
		event := StockMovementRecorded{
			MovementID:    movement.ID,
			ProductID:     productID,
			ProductName:   item.Name,
			Type:          movementType,
			Quantity:      quantity,
			Reason:        reason,
			StockQuantity: item.StockQuantity,
			Status:        item.Status(),
			RecordedAt:    movement.CreatedAt,
		}
		if err := l.publisher.Publish(ctx, productID, EventStockMovementRecorded, event); err != nil {
			// The movement is committed; event delivery is best-effort.
			log.Printf("[Ledger] Failed to publish movement event for product %s: %v", productID, err)
		}
	}

	return item, movement, nil
}

// Item returns the inventory view for one product.
func (l *Ledger) Item(ctx context.Context, productID string) (*Item, error) {
	return l.store.Item(ctx, productID)
}

// List returns inventory items matching the filter.
func (l *Ledger) List(ctx context.Context, filter Filter) ([]Item, error) {
	return l.store.List(ctx, filter)
}

// Movements returns the most recent movements, optionally scoped to a
// product.
func (l *Ledger) Movements(ctx context.Context, productID string, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.store.Movements(ctx, productID, limit)
}

// Stats recomputes the dashboard aggregates from the current inventory
// and movement collections.
func (l *Ledger) Stats(ctx context.Context, recentWindow time.Duration) (*Stats, error) {
	if recentWindow <= 0 {
		recentWindow = 7 * 24 * time.Hour
	}
	return l.store.Stats(ctx, recentWindow)
}
