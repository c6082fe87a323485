package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/atelier-shop/internal/blog"
)

// BlogStore implements blog.Repository on PostgreSQL.
type BlogStore struct {
	db *sql.DB
}

func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogColumns = `id, title, slug, excerpt, content, cover_image, published, author_id,
	like_count, created_at, updated_at, published_at`

func (s *BlogStore) Post(ctx context.Context, id string) (*blog.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id)
	return scanPost(row)
}

func (s *BlogStore) PostBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1`, slug)
	return scanPost(row)
}

func (s *BlogStore) List(ctx context.Context, publishedOnly bool) ([]blog.Post, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []blog.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *BlogStore) Create(ctx context.Context, p *blog.Post) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_posts (id, title, slug, excerpt, content, cover_image, published,
			author_id, created_at, updated_at, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Published,
		p.AuthorID, p.CreatedAt, p.UpdatedAt, p.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (s *BlogStore) Update(ctx context.Context, p *blog.Post) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE blog_posts SET title = $1, slug = $2, excerpt = $3, content = $4, cover_image = $5,
			published = $6, published_at = $7, updated_at = NOW()
		 WHERE id = $8`,
		p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Published, p.PublishedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return requireRow(res, blog.ErrPostNotFound)
}

func (s *BlogStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireRow(res, blog.ErrPostNotFound)
}

// ToggleLike flips the user's like inside one transaction so the
// post's counter and the like rows cannot drift apart.
func (s *BlogStore) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	liked := removed == 0
	if liked {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, NOW())`,
			postID, userID,
		); err != nil {
			return false, fmt.Errorf("failed to record like: %w", err)
		}
	}

	delta := 1
	if !liked {
		delta = -1
	}
	res, err = tx.ExecContext(ctx,
		`UPDATE blog_posts SET like_count = GREATEST(like_count + $1, 0) WHERE id = $2`,
		delta, postID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update like count: %w", err)
	}
	if err := requireRow(res, blog.ErrPostNotFound); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit like: %w", err)
	}
	return liked, nil
}

func scanPost(row rowScanner) (*blog.Post, error) {
	var p blog.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage, &p.Published,
		&p.AuthorID, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, blog.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &p, nil
}
