package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Publisher emits domain events after an order mutation commits.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

// Service owns order creation and administration.
type Service struct {
	repo      Repository
	publisher Publisher
}

func NewService(repo Repository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Place creates a pending order from checkout items. The total is
// recomputed from the lines, never trusted from the caller.
func (s *Service) Place(ctx context.Context, userID, email string, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	now := time.Now()
	o := &Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Email:     email,
		Items:     items,
		Total:     total,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if s.publisher != nil {
		event := OrderPlaced{
			OrderID:  o.ID,
			UserID:   userID,
			Email:    email,
			Items:    items,
			Total:    total,
			PlacedAt: now,
		}
		if err := s.publisher.Publish(ctx, o.ID, EventOrderPlaced, event); err != nil {
			log.Printf("[Order] Failed to publish OrderPlaced for %s: %v", o.ID, err)
		}
	}

	return o, nil
}

// UpdateStatus moves an order to a new status. Final orders are frozen.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	current, err := s.repo.Order(ctx, id)
	if err != nil {
		return err
	}
	if current.Status.Final() {
		return ErrAlreadyFinished
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

// BulkUpdateStatus applies a status change to several orders as plain
// sequential requests. The first error stops the batch and reports how
// many orders were updated before it.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, status Status) (int, error) {
	if !status.Valid() {
		return 0, ErrInvalidStatus
	}

	updated := 0
	for _, id := range ids {
		if err := s.UpdateStatus(ctx, id, status); err != nil {
			return updated, fmt.Errorf("order %s: %w", id, err)
		}
		updated++
	}
	return updated, nil
}

// Order returns one order.
func (s *Service) Order(ctx context.Context, id string) (*Order, error) {
	return s.repo.Order(ctx, id)
}

// List returns orders, optionally scoped to a user.
func (s *Service) List(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.List(ctx, userID)
}
