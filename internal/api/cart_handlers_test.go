package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/atelier-shop/internal/cart"
	"github.com/example/atelier-shop/internal/catalog"
	"github.com/example/atelier-shop/internal/checkout"
	"github.com/example/atelier-shop/internal/order"
)

// ============ Stubs ============

type stubCatalog struct {
	catalog.Repository
	products map[string]*catalog.Product
}

func (s *stubCatalog) Product(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

type memCartStore struct {
	carts map[string][]cart.Item
}

func (m *memCartStore) Load(ctx context.Context, key string) ([]cart.Item, error) {
	return m.carts[key], nil
}

func (m *memCartStore) Save(ctx context.Context, key string, items []cart.Item) error {
	m.carts[key] = items
	return nil
}

type stubOrderRepo struct {
	created []*order.Order
}

func (s *stubOrderRepo) Order(ctx context.Context, id string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (s *stubOrderRepo) List(ctx context.Context, userID string) ([]order.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) Create(ctx context.Context, o *order.Order) error {
	s.created = append(s.created, o)
	return nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	return nil
}

func newCartHandler(stock int) (*CartHandler, *memCartStore, *stubOrderRepo) {
	products := &stubCatalog{products: map[string]*catalog.Product{
		"p1": {
			ID:            "p1",
			Name:          "Blue Nocturne",
			Price:         decimal.RequireFromString("1200.00"),
			IsActive:      true,
			StockQuantity: stock,
		},
	}}
	store := &memCartStore{carts: map[string][]cart.Item{}}
	orders := &stubOrderRepo{}
	co := checkout.NewService(order.NewService(orders, nil), "https://pay.example.com/session", "USD")
	return NewCartHandler(products, store, co), store, orders
}

func withCartCookie(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: cartCookieName, Value: "cart-1"})
	return r
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ============ AddItem ============

func TestAddItemHappyPath(t *testing.T) {
	handler, store, _ := newCartHandler(3)

	r := withCartCookie(httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"product_id":"p1"}`)))
	rec := httptest.NewRecorder()
	handler.AddItem(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	require.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, 1, resp.Cart.Items[0].Quantity)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "Added to cart", resp.Notifications[0].Message)

	// The cart was persisted under the cookie key.
	assert.Len(t, store.carts["cart-1"], 1)
}

func TestAddItemRejectsWhenStockExhausted(t *testing.T) {
	handler, _, _ := newCartHandler(1)

	r := withCartCookie(httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"product_id":"p1"}`)))
	rec := httptest.NewRecorder()
	handler.AddItem(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	// The second unit exceeds available stock.
	r = withCartCookie(httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"product_id":"p1"}`)))
	rec = httptest.NewRecorder()
	handler.AddItem(rec, r)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddItemUnknownProduct(t *testing.T) {
	handler, _, _ := newCartHandler(3)

	r := withCartCookie(httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"product_id":"ghost"}`)))
	rec := httptest.NewRecorder()
	handler.AddItem(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItemMintsCartCookie(t *testing.T) {
	handler, _, _ := newCartHandler(3)

	r := httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"product_id":"p1"}`))
	rec := httptest.NewRecorder()
	handler.AddItem(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, cartCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

// ============ Update / Remove / Clear ============

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	handler, store, _ := newCartHandler(3)
	store.carts["cart-1"] = []cart.Item{
		{ID: "p1", Title: "Blue Nocturne", UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 2},
	}

	r := withCartCookie(httptest.NewRequest("PUT", "/api/cart/items/p1", strings.NewReader(`{"quantity":0}`)))
	rec := httptest.NewRecorder()
	handler.UpdateItem(rec, r, "p1")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	assert.Empty(t, resp.Cart.Items)
	assert.Empty(t, store.carts["cart-1"])
}

func TestRemoveAbsentItemIsOK(t *testing.T) {
	handler, _, _ := newCartHandler(3)

	r := withCartCookie(httptest.NewRequest("DELETE", "/api/cart/items/ghost", nil))
	rec := httptest.NewRecorder()
	handler.RemoveItem(rec, r, "ghost")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClearCart(t *testing.T) {
	handler, store, _ := newCartHandler(3)
	store.carts["cart-1"] = []cart.Item{
		{ID: "p1", UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 2},
	}

	r := withCartCookie(httptest.NewRequest("DELETE", "/api/cart", nil))
	rec := httptest.NewRecorder()
	handler.ClearCart(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.carts["cart-1"])
}

// ============ Checkout ============

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	handler, store, orders := newCartHandler(3)
	store.carts["cart-1"] = []cart.Item{
		{ID: "p1", Title: "Blue Nocturne", UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 2},
	}

	r := withCartCookie(httptest.NewRequest("POST", "/api/checkout", strings.NewReader(`{"email":"anna@example.com"}`)))
	rec := httptest.NewRecorder()
	handler.Checkout(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, orders.created, 1)
	assert.Equal(t, "anna@example.com", orders.created[0].Email)

	var handoff checkout.Handoff
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &handoff))
	assert.Equal(t, orders.created[0].ID, handoff.OrderID)
	assert.Contains(t, handoff.RedirectURL, "order="+handoff.OrderID)

	assert.Empty(t, store.carts["cart-1"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	handler, _, _ := newCartHandler(3)

	r := withCartCookie(httptest.NewRequest("POST", "/api/checkout", strings.NewReader(`{"email":"anna@example.com"}`)))
	rec := httptest.NewRecorder()
	handler.Checkout(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRequiresEmail(t *testing.T) {
	handler, store, _ := newCartHandler(3)
	store.carts["cart-1"] = []cart.Item{
		{ID: "p1", UnitPrice: decimal.RequireFromString("1200.00"), Quantity: 1},
	}

	r := withCartCookie(httptest.NewRequest("POST", "/api/checkout", strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()
	handler.Checkout(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
