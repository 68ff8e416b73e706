package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/services"
	"portal/internal/httputil"
)

// AuthHandler handles login, signup and session HTTP requests
type AuthHandler struct {
	service services.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// SessionResponse describes the identity behind a verified token
type SessionResponse struct {
	User      models.PublicUser `json:"user"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Login authenticates a user
// POST /auth-login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, "Username and password are required")
		case errors.Is(err, domain.ErrNotFound):
			httputil.RespondMessage(w, http.StatusNotFound, "Username not found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.RespondError(w, http.StatusUnauthorized, "Invalid password")
		default:
			handleError(w, h.logger, err)
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Signup creates an account
// POST /auth-signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// Session returns the identity carried by the caller's bearer token
// GET /auth-session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims := httputil.GetClaims(r)
	if claims == nil {
		httputil.RespondUnauthorized(w, r)
		return
	}

	resp := SessionResponse{User: claims.PublicUser()}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
