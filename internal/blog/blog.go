// Package blog is the lightweight CMS behind the storefront's journal
// pages.
package blog

import (
	"context"
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

// Post is one journal entry.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Published   bool       `json:"published"`
	AuthorID    string     `json:"author_id"`
	LikeCount   int        `json:"like_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Repository is the blog persistence boundary. ToggleLike flips one
// user's like on a post and keeps the like counter in step: liking
// twice is an unlike. It returns whether the post is liked afterwards.
type Repository interface {
	Post(ctx context.Context, id string) (*Post, error)
	PostBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, publishedOnly bool) ([]Post, error)
	Create(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
}
