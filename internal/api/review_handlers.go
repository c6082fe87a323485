package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/atelier-shop/internal/api/middleware"
	"github.com/example/atelier-shop/internal/catalog"
	"github.com/example/atelier-shop/internal/review"
	"github.com/example/atelier-shop/internal/user"
)

// ReviewHandler serves product review reads, submission and the
// helpful counter.
type ReviewHandler struct {
	reviews *review.Service
	catalog catalog.Repository
	users   user.Repository
}

func NewReviewHandler(reviews *review.Service, cat catalog.Repository, users user.Repository) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, catalog: cat, users: users}
}

type reviewListResponse struct {
	Reviews []review.Review `json:"reviews"`
	Summary *review.Summary `json:"summary"`
}

// ListProductReviews returns a page of approved reviews plus the
// rating aggregate for one product.
func (h *ReviewHandler) ListProductReviews(w http.ResponseWriter, r *http.Request, slug string) {
	p, ok := h.activeProduct(w, r, slug)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	reviews, summary, err := h.reviews.ProductReviews(r.Context(), p.ID, page, perPage)
	if err != nil {
		respondError(w, "failed to list reviews", http.StatusInternalServerError)
		return
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	respondJSON(w, http.StatusOK, reviewListResponse{Reviews: reviews, Summary: summary})
}

type submitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"max=4000"`
}

// SubmitReview creates or replaces the signed-in user's review of the
// product. Resubmissions go back through moderation.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request, slug string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req submitReviewRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, ok := h.activeProduct(w, r, slug)
	if !ok {
		return
	}

	userName := ""
	if u, err := h.users.User(r.Context(), claims.UserID); err == nil {
		userName = u.Name
	}

	rv, err := h.reviews.Submit(r.Context(), p.ID, claims.UserID, userName, req.Rating, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, review.ErrInvalidRating) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondError(w, "failed to submit review", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, rv)
}

// MarkHelpful bumps a review's helpful counter.
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.reviews.MarkHelpful(r.Context(), id); err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			respondError(w, "review not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to mark review helpful", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "marked helpful"})
}

func (h *ReviewHandler) activeProduct(w http.ResponseWriter, r *http.Request, slug string) (*catalog.Product, bool) {
	p, err := h.catalog.ProductBySlug(r.Context(), slug)
	if err != nil || !p.IsActive {
		respondError(w, "product not found", http.StatusNotFound)
		return nil, false
	}
	return p, true
}
