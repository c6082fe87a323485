package api

import (
	"errors"
	"net/http"

	"github.com/example/atelier-shop/internal/api/middleware"
	"github.com/example/atelier-shop/internal/order"
	"github.com/example/atelier-shop/internal/user"
)

// OrderHandler serves the customer-facing order endpoints.
type OrderHandler struct {
	orders *order.Service
}

func NewOrderHandler(orders *order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// MyOrders returns the signed-in user's orders, newest first.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.orders.List(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order. Customers can only read their own orders;
// admins can read any.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	o, err := h.orders.Order(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(w, "order not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to load order", http.StatusInternalServerError)
		return
	}

	if o.UserID != claims.UserID && claims.Role != user.RoleAdmin {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
