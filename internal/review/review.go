// Package review holds moderated product reviews: star ratings with a
// pending/approved/rejected lifecycle, a verified-purchase flag and
// helpful counts.
package review

import (
	"context"
	"errors"
	"time"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus  = errors.New("unknown review status")
)

// Status is the moderation state. New and resubmitted reviews always
// start PENDING; only APPROVED reviews are visible on the storefront.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Review is one customer's review of a product. A user has at most one
// review per product; resubmitting replaces it.
type Review struct {
	ID                 string    `json:"id"`
	ProductID          string    `json:"product_id"`
	UserID             string    `json:"user_id"`
	UserName           string    `json:"user_name,omitempty"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title,omitempty"`
	Content            string    `json:"content,omitempty"`
	Status             Status    `json:"status"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	HelpfulCount       int       `json:"helpful_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Summary aggregates the approved reviews of a product. It is derived
// on demand, never stored.
type Summary struct {
	TotalCount    int     `json:"total_count"`
	AverageRating float64 `json:"average_rating"`
}

// Repository is the review persistence boundary.
type Repository interface {
	Review(ctx context.Context, id string) (*Review, error)
	ByProductAndUser(ctx context.Context, productID, userID string) (*Review, error)
	ListByProduct(ctx context.Context, productID string, approvedOnly bool, limit, offset int) ([]Review, error)
	ListByStatus(ctx context.Context, status Status) ([]Review, error)
	Summary(ctx context.Context, productID string, approvedOnly bool) (*Summary, error)
	Create(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	IncrementHelpful(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
