package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/atelier-shop/internal/api/middleware"
	"github.com/example/atelier-shop/internal/auth"
	"github.com/example/atelier-shop/internal/user"
)

// AuthHandler serves registration, login and session lookup.
type AuthHandler struct {
	users  user.Repository
	tokens *auth.TokenService
}

func NewAuthHandler(users user.Repository, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User      *user.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Register creates a customer account and signs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         user.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			respondError(w, "email already registered", http.StatusConflict)
			return
		}
		respondError(w, "failed to create account", http.StatusInternalServerError)
		return
	}

	h.issueSession(w, r, u, http.StatusCreated)
}

// Login exchanges credentials for an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := bind(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.users.UserByEmail(r.Context(), req.Email)
	if err != nil || !u.IsActive || !auth.CheckPassword(req.Password, u.PasswordHash) {
		respondError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	h.issueSession(w, r, u, http.StatusOK)
}

// Logout clears the access token cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the account behind the current token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.users.User(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, "user not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, u *user.User, status int) {
	token, expiresAt, err := h.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		respondError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, status, authResponse{User: u, Token: token, ExpiresAt: expiresAt})
}
