package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/atelier-shop/internal/review"
)

// ReviewStore implements review.Repository on PostgreSQL.
type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewColumns = `id, product_id, user_id, user_name, rating, title, content, status,
	is_verified_purchase, helpful_count, created_at, updated_at`

func (s *ReviewStore) Review(ctx context.Context, id string) (*review.Review, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM product_reviews WHERE id = $1`, id)
	return scanReview(row)
}

func (s *ReviewStore) ByProductAndUser(ctx context.Context, productID, userID string) (*review.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM product_reviews WHERE product_id = $1 AND user_id = $2`,
		productID, userID,
	)
	return scanReview(row)
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID string, approvedOnly bool, limit, offset int) ([]review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM product_reviews WHERE product_id = $1`
	if approvedOnly {
		query += ` AND status = 'APPROVED'`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()
	return collectReviews(rows)
}

func (s *ReviewStore) ListByStatus(ctx context.Context, status review.Status) ([]review.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM product_reviews WHERE status = $1 ORDER BY created_at ASC`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews by status: %w", err)
	}
	defer rows.Close()
	return collectReviews(rows)
}

// Summary aggregates count and average rating in SQL; an unreviewed
// product yields a zero summary.
func (s *ReviewStore) Summary(ctx context.Context, productID string, approvedOnly bool) (*review.Summary, error) {
	query := `SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM product_reviews WHERE product_id = $1`
	if approvedOnly {
		query += ` AND status = 'APPROVED'`
	}

	var out review.Summary
	if err := s.db.QueryRowContext(ctx, query, productID).Scan(&out.TotalCount, &out.AverageRating); err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return &out, nil
}

func (s *ReviewStore) Create(ctx context.Context, r *review.Review) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO product_reviews (id, product_id, user_id, user_name, rating, title, content,
			status, is_verified_purchase, helpful_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.ProductID, r.UserID, r.UserName, r.Rating, r.Title, r.Content,
		string(r.Status), r.IsVerifiedPurchase, r.HelpfulCount, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (s *ReviewStore) Update(ctx context.Context, r *review.Review) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE product_reviews SET rating = $1, title = $2, content = $3, status = $4, updated_at = NOW()
		 WHERE id = $5`,
		r.Rating, r.Title, r.Content, string(r.Status), r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return requireRow(res, review.ErrReviewNotFound)
}

func (s *ReviewStore) UpdateStatus(ctx context.Context, id string, status review.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE product_reviews SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}
	return requireRow(res, review.ErrReviewNotFound)
}

func (s *ReviewStore) IncrementHelpful(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE product_reviews SET helpful_count = helpful_count + 1 WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("failed to bump helpful count: %w", err)
	}
	return requireRow(res, review.ErrReviewNotFound)
}

func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM product_reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return requireRow(res, review.ErrReviewNotFound)
}

func collectReviews(rows *sql.Rows) ([]review.Review, error) {
	var reviews []review.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

func scanReview(row rowScanner) (*review.Review, error) {
	var r review.Review
	var status string
	err := row.Scan(
		&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Title, &r.Content, &status,
		&r.IsVerifiedPurchase, &r.HelpfulCount, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, review.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	r.Status = review.Status(status)
	return &r, nil
}
