package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/atelier-shop/internal/order"
)

// Service owns review submission and moderation.
type Service struct {
	repo   Repository
	orders order.Repository
}

func NewService(repo Repository, orders order.Repository) *Service {
	return &Service{repo: repo, orders: orders}
}

// Submit creates the user's review of a product, or replaces an
// existing one. Either way the review enters moderation as PENDING.
func (s *Service) Submit(ctx context.Context, productID, userID, userName string, rating int, title, content string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	now := time.Now()

	existing, err := s.repo.ByProductAndUser(ctx, productID, userID)
	if err != nil && !errors.Is(err, ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to look up review: %w", err)
	}
	if err == nil {
		existing.Rating = rating
		existing.Title = title
		existing.Content = content
		existing.Status = StatusPending
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update review: %w", err)
		}
		return existing, nil
	}

	r := &Review{
		ID:                 uuid.New().String(),
		ProductID:          productID,
		UserID:             userID,
		UserName:           userName,
		Rating:             rating,
		Title:              title,
		Content:            content,
		Status:             StatusPending,
		IsVerifiedPurchase: s.hasPurchased(ctx, userID, productID),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return r, nil
}

// hasPurchased reports whether the user has a shipped or delivered
// order containing the product. Lookup failures degrade to false
// rather than blocking the submission.
func (s *Service) hasPurchased(ctx context.Context, userID, productID string) bool {
	orders, err := s.orders.List(ctx, userID)
	if err != nil {
		log.Printf("[Review] Failed to check purchase history for user %s: %v", userID, err)
		return false
	}
	for _, o := range orders {
		if o.Status != order.StatusShipped && o.Status != order.StatusDelivered {
			continue
		}
		for _, line := range o.Items {
			if line.ProductID == productID {
				return true
			}
		}
	}
	return false
}

// ProductReviews returns a page of approved reviews plus the aggregate
// for the product.
func (s *Service) ProductReviews(ctx context.Context, productID string, page, perPage int) ([]Review, *Summary, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}

	reviews, err := s.repo.ListByProduct(ctx, productID, true, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	summary, err := s.repo.Summary(ctx, productID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return reviews, summary, nil
}

// MarkHelpful bumps the review's helpful counter.
func (s *Service) MarkHelpful(ctx context.Context, id string) error {
	return s.repo.IncrementHelpful(ctx, id)
}

// Moderate moves a review to APPROVED or REJECTED.
func (s *Service) Moderate(ctx context.Context, id string, status Status) error {
	if !status.Valid() || status == StatusPending {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// ModerationQueue returns reviews awaiting a decision.
func (s *Service) ModerationQueue(ctx context.Context) ([]Review, error) {
	return s.repo.ListByStatus(ctx, StatusPending)
}

// Delete removes a review outright.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
