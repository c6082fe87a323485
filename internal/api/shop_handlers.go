package api

import (
	"errors"
	"net/http"

	"github.com/example/atelier-shop/internal/api/middleware"
	"github.com/example/atelier-shop/internal/blog"
	"github.com/example/atelier-shop/internal/catalog"
	"github.com/example/atelier-shop/internal/settings"
)

// ShopHandler serves the public storefront reads: catalog, journal and
// store settings. Everything here is unauthenticated and scoped to
// active records.
type ShopHandler struct {
	catalog  catalog.Repository
	posts    blog.Repository
	settings *settings.Cache
}

func NewShopHandler(cat catalog.Repository, posts blog.Repository, cache *settings.Cache) *ShopHandler {
	return &ShopHandler{catalog: cat, posts: posts, settings: cache}
}

// ListProducts returns active products, optionally filtered by search
// text, category or the featured flag.
func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ProductFilter{
		Search:     r.URL.Query().Get("search"),
		CategoryID: r.URL.Query().Get("category"),
		Featured:   r.URL.Query().Get("featured") == "true",
		ActiveOnly: true,
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GetProduct returns one active product by slug.
func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request, slug string) {
	p, err := h.catalog.ProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, "product not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to load product", http.StatusInternalServerError)
		return
	}
	if !p.IsActive {
		respondError(w, "product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ListCategories returns all categories for the shop navigation.
func (h *ShopHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, "failed to list categories", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// ListPosts returns published journal posts.
func (h *ShopHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context(), true)
	if err != nil {
		respondError(w, "failed to list posts", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetPost returns one published post by slug.
func (h *ShopHandler) GetPost(w http.ResponseWriter, r *http.Request, slug string) {
	p, err := h.posts.PostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			respondError(w, "post not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	if !p.Published {
		respondError(w, "post not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type likeResponse struct {
	Liked bool `json:"liked"`
}

// LikePost toggles the signed-in user's like on a published post.
func (h *ShopHandler) LikePost(w http.ResponseWriter, r *http.Request, slug string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	p, err := h.posts.PostBySlug(r.Context(), slug)
	if err != nil || !p.Published {
		respondError(w, "post not found", http.StatusNotFound)
		return
	}

	liked, err := h.posts.ToggleLike(r.Context(), p.ID, claims.UserID)
	if err != nil {
		respondError(w, "failed to toggle like", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, likeResponse{Liked: liked})
}

// GetSettings returns the cached store settings for the storefront
// header and footer.
func (h *ShopHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.settings.Get(r.Context()))
}
