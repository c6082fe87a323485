package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/atelier-shop/internal/api/middleware"
	"github.com/example/atelier-shop/internal/blog"
	"github.com/example/atelier-shop/internal/catalog"
	"github.com/example/atelier-shop/internal/inventory"
	"github.com/example/atelier-shop/internal/order"
	"github.com/example/atelier-shop/internal/review"
	"github.com/example/atelier-shop/internal/settings"
)

// AdminHandler serves the admin console: catalog management, the
// inventory ledger, order administration, journal posts and store
// settings. Every route behind it requires the ADMIN role.
type AdminHandler struct {
	catalog       catalog.Repository
	ledger        *inventory.Ledger
	orders        *order.Service
	posts         blog.Repository
	reviews       *review.Service
	settingsRepo  settings.Repository
	settingsCache *settings.Cache
}

func NewAdminHandler(
	cat catalog.Repository,
	ledger *inventory.Ledger,
	orders *order.Service,
	posts blog.Repository,
	reviews *review.Service,
	settingsRepo settings.Repository,
	settingsCache *settings.Cache,
) *AdminHandler {
	return &AdminHandler{
		catalog:       cat,
		ledger:        ledger,
		orders:        orders,
		posts:         posts,
		reviews:       reviews,
		settingsRepo:  settingsRepo,
		settingsCache: settingsCache,
	}
}

// ============ Inventory ============

type inventoryItemView struct {
	inventory.Item
	Status inventory.StockStatus `json:"status"`
}

func inventoryView(items []inventory.Item) []inventoryItemView {
	views := make([]inventoryItemView, len(items))
	for i, item := range items {
		views[i] = inventoryItemView{Item: item, Status: item.Status()}
	}
	return views
}

// ListInventory returns the inventory table, filtered by search text,
// category or derived stock status.
func (h *AdminHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	filter := inventory.Filter{
		Search:     r.URL.Query().Get("search"),
		CategoryID: r.URL.Query().Get("category"),
		Status:     inventory.StockStatus(r.URL.Query().Get("status")),
	}

	items, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		respondError(w, "failed to list inventory", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, inventoryView(items))
}

// InventoryStats returns the dashboard aggregates.
func (h *AdminHandler) InventoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.Stats(r.Context(), 0)
	if err != nil {
		respondError(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ListMovements returns recent stock movements, optionally scoped to a
// product.
func (h *AdminHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	movements, err := h.ledger.Movements(r.Context(), r.URL.Query().Get("product_id"), limit)
	if err != nil {
		respondError(w, "failed to list movements", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, movements)
}

type recordMovementRequest struct {
	Type     string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Reason   string `json:"reason" validate:"required"`
	Notes    string `json:"notes"`
}

type recordMovementResponse struct {
	Item     inventoryItemView   `json:"item"`
	Movement *inventory.Movement `json:"movement"`
}

// RecordMovement applies a stock movement to one product.
func (h *AdminHandler) RecordMovement(w http.ResponseWriter, r *http.Request, productID string) {
	var req recordMovementRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	actorID := ""
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		actorID = claims.UserID
	}

	item, movement, err := h.ledger.ApplyMovement(
		r.Context(), productID, inventory.MovementType(req.Type), req.Quantity, req.Reason, req.Notes, actorID,
	)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrProductNotFound):
			respondError(w, "product not found", http.StatusNotFound)
		case errors.Is(err, inventory.ErrInsufficientStock):
			respondError(w, "insufficient stock for outbound movement", http.StatusConflict)
		case errors.Is(err, inventory.ErrInvalidQuantity),
			errors.Is(err, inventory.ErrInvalidType),
			errors.Is(err, inventory.ErrEmptyReason):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, "failed to record movement", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, recordMovementResponse{
		Item:     inventoryItemView{Item: *item, Status: item.Status()},
		Movement: movement,
	})
}

// ============ Products ============

type productRequest struct {
	Name              string          `json:"name" validate:"required,min=2,max=200"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	ImageURL          string          `json:"image_url" validate:"omitempty,url"`
	Medium            string          `json:"medium"`
	Size              string          `json:"size"`
	SKU               string          `json:"sku"`
	CategoryID        string          `json:"category_id" validate:"omitempty,uuid"`
	Featured          bool            `json:"featured"`
	IsActive          bool            `json:"is_active"`
	StockQuantity     int             `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"gte=0"`
}

// ListProducts returns every product, active or not.
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(), catalog.ProductFilter{
		Search:     r.URL.Query().Get("search"),
		CategoryID: r.URL.Query().Get("category"),
	})
	if err != nil {
		respondError(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// CreateProduct adds a catalog entry. The initial stock quantity seeds
// the counter; later changes go through the ledger.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Price.IsNegative() {
		respondError(w, "price must not be negative", http.StatusBadRequest)
		return
	}

	now := time.Now()
	p := &catalog.Product{
		ID:                uuid.New().String(),
		Name:              req.Name,
		Slug:              catalog.Slugify(req.Name),
		Description:       req.Description,
		Price:             req.Price,
		ImageURL:          req.ImageURL,
		Medium:            req.Medium,
		Size:              req.Size,
		SKU:               req.SKU,
		CategoryID:        req.CategoryID,
		Featured:          req.Featured,
		IsActive:          req.IsActive,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := h.catalog.CreateProduct(r.Context(), p); err != nil {
		if errors.Is(err, catalog.ErrSlugTaken) {
			respondError(w, "a product with this name already exists", http.StatusConflict)
			return
		}
		respondError(w, "failed to create product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// UpdateProduct edits a catalog entry. Stock quantity is not written
// here: the inventory ledger owns it.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request, id string) {
	var req productRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Price.IsNegative() {
		respondError(w, "price must not be negative", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, "product not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	p.Name = req.Name
	p.Slug = catalog.Slugify(req.Name)
	p.Description = req.Description
	p.Price = req.Price
	p.ImageURL = req.ImageURL
	p.Medium = req.Medium
	p.Size = req.Size
	p.SKU = req.SKU
	p.CategoryID = req.CategoryID
	p.Featured = req.Featured
	p.IsActive = req.IsActive
	p.LowStockThreshold = req.LowStockThreshold

	if err := h.catalog.UpdateProduct(r.Context(), p); err != nil {
		if errors.Is(err, catalog.ErrSlugTaken) {
			respondError(w, "a product with this name already exists", http.StatusConflict)
			return
		}
		respondError(w, "failed to update product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DeleteProduct removes a catalog entry.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, "product not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to delete product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// ============ Categories ============

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	c := &catalog.Category{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Slug:        catalog.Slugify(req.Name),
		Description: req.Description,
		IsActive:    req.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.catalog.CreateCategory(r.Context(), c); err != nil {
		if errors.Is(err, catalog.ErrSlugTaken) {
			respondError(w, "a category with this name already exists", http.StatusConflict)
			return
		}
		respondError(w, "failed to create category", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request, id string) {
	var req categoryRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.catalog.Category(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			respondError(w, "category not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to load category", http.StatusInternalServerError)
		return
	}

	c.Name = req.Name
	c.Slug = catalog.Slugify(req.Name)
	c.Description = req.Description
	c.IsActive = req.IsActive

	if err := h.catalog.UpdateCategory(r.Context(), c); err != nil {
		if errors.Is(err, catalog.ErrSlugTaken) {
			respondError(w, "a category with this name already exists", http.StatusConflict)
			return
		}
		respondError(w, "failed to update category", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			respondError(w, "category not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to delete category", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// ============ Orders ============

// ListOrders returns all orders, newest first.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), "")
	if err != nil {
		respondError(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PAID SHIPPED DELIVERED CANCELLED"`
}

// UpdateOrderStatus moves one order to a new status.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req updateOrderStatusRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, order.Status(req.Status)); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(w, "order not found", http.StatusNotFound)
		case errors.Is(err, order.ErrAlreadyFinished):
			respondError(w, "order is already finalized", http.StatusConflict)
		case errors.Is(err, order.ErrInvalidStatus):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, "failed to update order", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "order updated"})
}

type bulkOrderStatusRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,required"`
	Status   string   `json:"status" validate:"required,oneof=PENDING PAID SHIPPED DELIVERED CANCELLED"`
}

type bulkOrderStatusResponse struct {
	Updated int    `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// BulkUpdateOrderStatus applies a status change to several orders. The
// batch stops at the first failure and reports the partial count.
func (h *AdminHandler) BulkUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkOrderStatusRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.orders.BulkUpdateStatus(r.Context(), req.OrderIDs, order.Status(req.Status))
	if err != nil {
		respondJSON(w, http.StatusMultiStatus, bulkOrderStatusResponse{Updated: updated, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, bulkOrderStatusResponse{Updated: updated})
}

// ============ Reviews ============

// ModerationQueue returns reviews awaiting a moderation decision,
// oldest first.
func (h *AdminHandler) ModerationQueue(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ModerationQueue(r.Context())
	if err != nil {
		respondError(w, "failed to list reviews", http.StatusInternalServerError)
		return
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	respondJSON(w, http.StatusOK, reviews)
}

type moderateReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// ModerateReview approves or rejects a pending review.
func (h *AdminHandler) ModerateReview(w http.ResponseWriter, r *http.Request, id string) {
	var req moderateReviewRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.reviews.Moderate(r.Context(), id, review.Status(req.Status)); err != nil {
		switch {
		case errors.Is(err, review.ErrReviewNotFound):
			respondError(w, "review not found", http.StatusNotFound)
		case errors.Is(err, review.ErrInvalidStatus):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, "failed to moderate review", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "review moderated"})
}

// DeleteReview removes a review outright.
func (h *AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			respondError(w, "review not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to delete review", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "review deleted"})
}

// ============ Settings ============

// GetSettings returns the stored settings, bypassing the cache so the
// admin console always edits the latest row.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settingsRepo.Load(r.Context())
	if err != nil {
		respondError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

type updateSettingsRequest struct {
	StoreName       string `json:"store_name" validate:"required,min=1,max=100"`
	StoreAddress    string `json:"store_address"`
	StorePhone      string `json:"store_phone"`
	StoreEmail      string `json:"store_email" validate:"omitempty,email"`
	StoreWebsite    string `json:"store_website" validate:"omitempty,url"`
	Currency        string `json:"currency" validate:"required,len=3"`
	EnablePayment   bool   `json:"enable_payment"`
	MaintenanceMode bool   `json:"maintenance_mode"`
	LogoURL         string `json:"logo_url" validate:"omitempty,url"`
	InstagramURL    string `json:"instagram_url" validate:"omitempty,url"`
	SupportPhone    string `json:"support_phone"`
}

// UpdateSettings saves the settings row and invalidates the storefront
// cache so the change is visible immediately.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := &settings.StoreSettings{
		StoreName:       req.StoreName,
		StoreAddress:    req.StoreAddress,
		StorePhone:      req.StorePhone,
		StoreEmail:      req.StoreEmail,
		StoreWebsite:    req.StoreWebsite,
		Currency:        req.Currency,
		EnablePayment:   req.EnablePayment,
		MaintenanceMode: req.MaintenanceMode,
		LogoURL:         req.LogoURL,
		InstagramURL:    req.InstagramURL,
		SupportPhone:    req.SupportPhone,
	}

	if err := h.settingsRepo.Save(r.Context(), s); err != nil {
		respondError(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	h.settingsCache.Invalidate()
	respondJSON(w, http.StatusOK, s)
}

// ============ Journal ============

type postRequest struct {
	Title      string `json:"title" validate:"required,min=2,max=200"`
	Excerpt    string `json:"excerpt"`
	Content    string `json:"content" validate:"required"`
	CoverImage string `json:"cover_image" validate:"omitempty,url"`
	Published  bool   `json:"published"`
}

// ListPosts returns every journal post, drafts included.
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context(), false)
	if err != nil {
		respondError(w, "failed to list posts", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	authorID := ""
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		authorID = claims.UserID
	}

	now := time.Now()
	p := &blog.Post{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Slug:       catalog.Slugify(req.Title),
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Published:  req.Published,
		AuthorID:   authorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Published {
		p.PublishedAt = &now
	}

	if err := h.posts.Create(r.Context(), p); err != nil {
		respondError(w, "failed to create post", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request, id string) {
	var req postRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.posts.Post(r.Context(), id)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			respondError(w, "post not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to load post", http.StatusInternalServerError)
		return
	}

	p.Title = req.Title
	p.Slug = catalog.Slugify(req.Title)
	p.Excerpt = req.Excerpt
	p.Content = req.Content
	p.CoverImage = req.CoverImage
	if req.Published && !p.Published {
		now := time.Now()
		p.PublishedAt = &now
	}
	p.Published = req.Published

	if err := h.posts.Update(r.Context(), p); err != nil {
		respondError(w, "failed to update post", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.posts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			respondError(w, "post not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to delete post", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
