package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/atelier-shop/internal/api/middleware"
	"github.com/example/atelier-shop/internal/auth"
	"github.com/example/atelier-shop/internal/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	Shop    *ShopHandler
	Cart    *CartHandler
	Orders  *OrderHandler
	Reviews *ReviewHandler
	Admin   *AdminHandler
	Tokens  *auth.TokenService
}

// NewRouter wires the public storefront, the cart, the customer order
// views and the admin console onto one mux.
func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.Auth(h.Tokens)
	optionalAuth := middleware.OptionalAuth(h.Tokens)
	requireAdmin := func(next http.Handler) http.Handler {
		return requireAuth(middleware.RequireRole(user.RoleAdmin)(next))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// ============ Auth ============

	mux.HandleFunc("/api/auth/register", methodOnly(http.MethodPost, h.Auth.Register))
	mux.HandleFunc("/api/auth/login", methodOnly(http.MethodPost, h.Auth.Login))
	mux.HandleFunc("/api/auth/logout", methodOnly(http.MethodPost, h.Auth.Logout))
	mux.Handle("/api/auth/me", requireAuth(http.HandlerFunc(methodOnly(http.MethodGet, h.Auth.Me))))

	// ============ Storefront ============

	mux.HandleFunc("/api/products", methodOnly(http.MethodGet, h.Shop.ListProducts))
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/products/")
		if slug, ok := strings.CutSuffix(rest, "/reviews"); ok && slug != "" && !strings.Contains(slug, "/") {
			switch r.Method {
			case http.MethodGet:
				h.Reviews.ListProductReviews(w, r, slug)
			case http.MethodPost:
				requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					h.Reviews.SubmitReview(w, r, slug)
				})).ServeHTTP(w, r)
			default:
				respondError(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}
		if r.Method != http.MethodGet || rest == "" || strings.Contains(rest, "/") {
			respondError(w, "not found", http.StatusNotFound)
			return
		}
		h.Shop.GetProduct(w, r, rest)
	})
	mux.HandleFunc("/api/reviews/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/reviews/")
		id, ok := strings.CutSuffix(rest, "/helpful")
		if !ok || id == "" || strings.Contains(id, "/") || r.Method != http.MethodPost {
			respondError(w, "not found", http.StatusNotFound)
			return
		}
		h.Reviews.MarkHelpful(w, r, id)
	})
	mux.HandleFunc("/api/categories", methodOnly(http.MethodGet, h.Shop.ListCategories))
	mux.HandleFunc("/api/posts", methodOnly(http.MethodGet, h.Shop.ListPosts))
	mux.HandleFunc("/api/posts/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/posts/")
		if slug, ok := strings.CutSuffix(rest, "/like"); ok && slug != "" && !strings.Contains(slug, "/") {
			if r.Method != http.MethodPost {
				respondError(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				h.Shop.LikePost(w, r, slug)
			})).ServeHTTP(w, r)
			return
		}
		if r.Method != http.MethodGet || rest == "" || strings.Contains(rest, "/") {
			respondError(w, "not found", http.StatusNotFound)
			return
		}
		h.Shop.GetPost(w, r, rest)
	})
	mux.HandleFunc("/api/settings", methodOnly(http.MethodGet, h.Shop.GetSettings))

	// ============ Cart ============

	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Cart.GetCart(w, r)
		case http.MethodDelete:
			h.Cart.ClearCart(w, r)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/cart/items", methodOnly(http.MethodPost, h.Cart.AddItem))
	mux.HandleFunc("/api/cart/items/", func(w http.ResponseWriter, r *http.Request) {
		productID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
		if productID == "" || strings.Contains(productID, "/") {
			respondError(w, "not found", http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.Cart.UpdateItem(w, r, productID)
		case http.MethodDelete:
			h.Cart.RemoveItem(w, r, productID)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.Handle("/api/checkout", optionalAuth(http.HandlerFunc(methodOnly(http.MethodPost, h.Cart.Checkout))))

	// ============ Customer orders ============

	mux.Handle("/api/orders", requireAuth(http.HandlerFunc(methodOnly(http.MethodGet, h.Orders.MyOrders))))
	mux.Handle("/api/orders/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/orders/")
		if r.Method != http.MethodGet || id == "" || strings.Contains(id, "/") {
			respondError(w, "not found", http.StatusNotFound)
			return
		}
		h.Orders.GetOrder(w, r, id)
	})))

	// ============ Admin console ============

	mux.Handle("/api/admin/", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.routeAdmin(w, r)
	})))

	return withLogging(mux)
}

func (h Handlers) routeAdmin(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/admin/")

	switch {
	case path == "inventory" && r.Method == http.MethodGet:
		h.Admin.ListInventory(w, r)
	case path == "inventory/stats" && r.Method == http.MethodGet:
		h.Admin.InventoryStats(w, r)
	case path == "inventory/movements" && r.Method == http.MethodGet:
		h.Admin.ListMovements(w, r)
	case strings.HasPrefix(path, "inventory/") && strings.HasSuffix(path, "/movements") && r.Method == http.MethodPost:
		productID := strings.TrimSuffix(strings.TrimPrefix(path, "inventory/"), "/movements")
		h.Admin.RecordMovement(w, r, productID)

	case path == "products" && r.Method == http.MethodGet:
		h.Admin.ListProducts(w, r)
	case path == "products" && r.Method == http.MethodPost:
		h.Admin.CreateProduct(w, r)
	case strings.HasPrefix(path, "products/"):
		id := strings.TrimPrefix(path, "products/")
		switch r.Method {
		case http.MethodPut:
			h.Admin.UpdateProduct(w, r, id)
		case http.MethodDelete:
			h.Admin.DeleteProduct(w, r, id)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}

	case path == "categories" && r.Method == http.MethodPost:
		h.Admin.CreateCategory(w, r)
	case strings.HasPrefix(path, "categories/"):
		id := strings.TrimPrefix(path, "categories/")
		switch r.Method {
		case http.MethodPut:
			h.Admin.UpdateCategory(w, r, id)
		case http.MethodDelete:
			h.Admin.DeleteCategory(w, r, id)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}

	case path == "orders" && r.Method == http.MethodGet:
		h.Admin.ListOrders(w, r)
	case path == "orders/bulk-status" && r.Method == http.MethodPost:
		h.Admin.BulkUpdateOrderStatus(w, r)
	case strings.HasPrefix(path, "orders/") && strings.HasSuffix(path, "/status") && r.Method == http.MethodPatch:
		id := strings.TrimSuffix(strings.TrimPrefix(path, "orders/"), "/status")
		h.Admin.UpdateOrderStatus(w, r, id)

	case path == "reviews" && r.Method == http.MethodGet:
		h.Admin.ModerationQueue(w, r)
	case strings.HasPrefix(path, "reviews/") && strings.HasSuffix(path, "/status") && r.Method == http.MethodPatch:
		id := strings.TrimSuffix(strings.TrimPrefix(path, "reviews/"), "/status")
		h.Admin.ModerateReview(w, r, id)
	case strings.HasPrefix(path, "reviews/") && r.Method == http.MethodDelete:
		h.Admin.DeleteReview(w, r, strings.TrimPrefix(path, "reviews/"))

	case path == "settings" && r.Method == http.MethodGet:
		h.Admin.GetSettings(w, r)
	case path == "settings" && r.Method == http.MethodPut:
		h.Admin.UpdateSettings(w, r)

	case path == "posts" && r.Method == http.MethodGet:
		h.Admin.ListPosts(w, r)
	case path == "posts" && r.Method == http.MethodPost:
		h.Admin.CreatePost(w, r)
	case strings.HasPrefix(path, "posts/"):
		id := strings.TrimPrefix(path, "posts/")
		switch r.Method {
		case http.MethodPut:
			h.Admin.UpdatePost(w, r, id)
		case http.MethodDelete:
			h.Admin.DeletePost(w, r, id)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}

	default:
		respondError(w, "not found", http.StatusNotFound)
	}
}

func methodOnly(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[API] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
