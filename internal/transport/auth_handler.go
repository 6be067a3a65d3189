package transport

import (
	"net/http"

	"lwg-storefront/internal/middleware"
	"lwg-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the admin login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued credential and the user's public
// profile.
type LoginResponse struct {
	OK    bool        `json:"ok"`
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UserProfile represents the public fields of a user.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthHandler handles credential issuance.
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// RegisterRoutes registers the login route. rateLimit may be nil when no
// redis is configured.
func (h *AuthHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		if rateLimit != nil {
			r.With(rateLimit).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}
	})
}

// Login exchanges a username and secret for a bearer credential.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			h.logger.Debug("Login rejected", zap.String("username", req.Username))
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.logger.Info("Admin logged in", zap.String("username", user.Username))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		OK:    true,
		Token: token,
		User:  UserProfile{ID: user.ID.String(), Username: user.Username},
	})
}
