package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/atelier-shop/internal/api/middleware"
	"github.com/example/atelier-shop/internal/auth"
	"github.com/example/atelier-shop/internal/blog"
)

// ============ Stubs ============

type stubBlogRepo struct {
	blog.Repository
	posts   map[string]*blog.Post
	likedBy map[string]map[string]bool
}

func newStubBlogRepo(posts ...*blog.Post) *stubBlogRepo {
	s := &stubBlogRepo{
		posts:   make(map[string]*blog.Post),
		likedBy: make(map[string]map[string]bool),
	}
	for _, p := range posts {
		s.posts[p.Slug] = p
	}
	return s
}

func (s *stubBlogRepo) PostBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	p, ok := s.posts[slug]
	if !ok {
		return nil, blog.ErrPostNotFound
	}
	return p, nil
}

func (s *stubBlogRepo) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	if s.likedBy[postID] == nil {
		s.likedBy[postID] = make(map[string]bool)
	}
	liked := !s.likedBy[postID][userID]
	s.likedBy[postID][userID] = liked
	return liked, nil
}

func asUser(r *http.Request, userID string) *http.Request {
	claims := &auth.Claims{UserID: userID, Role: "CUSTOMER"}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, claims))
}

func decodeLike(t *testing.T, rec *httptest.ResponseRecorder) likeResponse {
	t.Helper()
	var resp likeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ============ LikePost ============

func TestLikePostToggles(t *testing.T) {
	repo := newStubBlogRepo(&blog.Post{ID: "post-1", Slug: "studio-notes", Published: true})
	handler := NewShopHandler(nil, repo, nil)

	r := asUser(httptest.NewRequest("POST", "/api/posts/studio-notes/like", nil), "user-1")
	rec := httptest.NewRecorder()
	handler.LikePost(rec, r, "studio-notes")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeLike(t, rec).Liked)

	// Liking again undoes the like.
	r = asUser(httptest.NewRequest("POST", "/api/posts/studio-notes/like", nil), "user-1")
	rec = httptest.NewRecorder()
	handler.LikePost(rec, r, "studio-notes")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeLike(t, rec).Liked)
}

func TestLikePostRequiresUser(t *testing.T) {
	repo := newStubBlogRepo(&blog.Post{ID: "post-1", Slug: "studio-notes", Published: true})
	handler := NewShopHandler(nil, repo, nil)

	r := httptest.NewRequest("POST", "/api/posts/studio-notes/like", nil)
	rec := httptest.NewRecorder()
	handler.LikePost(rec, r, "studio-notes")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLikePostHidesDrafts(t *testing.T) {
	repo := newStubBlogRepo(&blog.Post{ID: "post-1", Slug: "draft-notes", Published: false})
	handler := NewShopHandler(nil, repo, nil)

	r := asUser(httptest.NewRequest("POST", "/api/posts/draft-notes/like", nil), "user-1")
	rec := httptest.NewRecorder()
	handler.LikePost(rec, r, "draft-notes")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
