package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/atelier-shop/internal/api/middleware"
	"github.com/example/atelier-shop/internal/cart"
	"github.com/example/atelier-shop/internal/catalog"
	"github.com/example/atelier-shop/internal/checkout"
)

const cartCookieName = "cart_key"

// CartHandler serves the cart endpoints. The cart is keyed by an
// anonymous cookie, so guests and signed-in users share the same flow.
type CartHandler struct {
	catalog  catalog.Repository
	store    cart.Store
	checkout *checkout.Service
}

func NewCartHandler(cat catalog.Repository, store cart.Store, co *checkout.Service) *CartHandler {
	return &CartHandler{catalog: cat, store: store, checkout: co}
}

type toast struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// toastCollector gathers the notifications emitted during one request so
// they can ride back on the response.
type toastCollector struct {
	toasts []toast
}

func (c *toastCollector) Notify(message, detail string) {
	c.toasts = append(c.toasts, toast{Message: message, Detail: detail})
}

type cartResponse struct {
	Cart          cart.State `json:"cart"`
	Notifications []toast    `json:"notifications,omitempty"`
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// cartKey returns the cart cookie value, minting and setting a new key
// when the request has none.
func (h *CartHandler) cartKey(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(cartCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	key := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    key,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

func (h *CartHandler) open(w http.ResponseWriter, r *http.Request) (*cart.Cart, *toastCollector) {
	collector := &toastCollector{}
	return cart.Open(r.Context(), h.cartKey(w, r), h.store, collector), collector
}

// GetCart returns the current cart state.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, _ := h.open(w, r)
	respondJSON(w, http.StatusOK, cartResponse{Cart: c.State()})
}

// AddItem puts one unit of a product into the cart. Stock is checked
// here, against the line the cart already holds, before the add is
// dispatched.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Product(r.Context(), req.ProductID)
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

	c, collector := h.open(w, r)

	inCart := 0
	for _, line := range c.State().Items {
		if line.ID == p.ID {
			inCart = line.Quantity
		}
	}
	if inCart+1 > p.StockQuantity {
		respondError(w, "insufficient stock", http.StatusConflict)
		return
	}

	c.AddItem(r.Context(), cart.ItemInput{
		ID:        p.ID,
		Title:     p.Name,
		UnitPrice: p.Price,
		Image:     p.ImageURL,
		Medium:    p.Medium,
		Size:      p.Size,
	})
	respondJSON(w, http.StatusOK, cartResponse{Cart: c.State(), Notifications: collector.toasts})
}

// UpdateItem sets a line's quantity. Zero or less removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request, productID string) {
	var req updateCartItemRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, collector := h.open(w, r)
	c.UpdateQuantity(r.Context(), productID, req.Quantity)
	respondJSON(w, http.StatusOK, cartResponse{Cart: c.State(), Notifications: collector.toasts})
}

// RemoveItem drops a line from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request, productID string) {
	c, collector := h.open(w, r)
	c.RemoveItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, cartResponse{Cart: c.State(), Notifications: collector.toasts})
}

// ClearCart empties the cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, collector := h.open(w, r)
	c.Clear(r.Context())
	respondJSON(w, http.StatusOK, cartResponse{Cart: c.State(), Notifications: collector.toasts})
}

type checkoutRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// Checkout snapshots the cart into a pending order and returns the
// external payment redirect. The cart is cleared once the order exists;
// its lines live on in the order snapshot.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID := ""
	email := req.Email
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		userID = claims.UserID
		if email == "" {
			email = claims.Email
		}
	}
	if email == "" {
		respondError(w, "email is required", http.StatusBadRequest)
		return
	}

	c, _ := h.open(w, r)
	handoff, err := h.checkout.Begin(r.Context(), c.State(), userID, email)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, "cart is empty", http.StatusBadRequest)
			return
		}
		respondError(w, "failed to start checkout", http.StatusInternalServerError)
		return
	}

	c.Clear(r.Context())
	respondJSON(w, http.StatusCreated, handoff)
}
