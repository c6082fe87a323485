package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/atelier-shop/internal/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func protected(t *testing.T) (http.Handler, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService(testSecret, time.Hour)
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(claims.UserID))
	}))
	return handler, tokens
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler, _ := protected(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	handler, tokens := protected(t)
	token, _, err := tokens.Issue("user-1", "anna@example.com", "CUSTOMER")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuthAcceptsCookie(t *testing.T) {
	handler, tokens := protected(t)
	token, _, err := tokens.Issue("user-1", "anna@example.com", "CUSTOMER")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsForgedToken(t *testing.T) {
	handler, _ := protected(t)
	forger := auth.NewTokenService("another-secret-another-secret-xx", time.Hour)
	token, _, err := forger.Issue("user-1", "anna@example.com", "ADMIN")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenService(testSecret, time.Hour)
	handler := Auth(tokens)(RequireRole("ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	adminToken, _, err := tokens.Issue("admin-1", "admin@example.com", "ADMIN")
	require.NoError(t, err)
	customerToken, _, err := tokens.Issue("user-1", "anna@example.com", "CUSTOMER")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+customerToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOptionalAuthPassesThroughWithoutToken(t *testing.T) {
	tokens := auth.NewTokenService(testSecret, time.Hour)
	handler := OptionalAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := GetUserFromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
