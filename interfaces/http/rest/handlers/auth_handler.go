package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mugenreco-backend/pkg/auth"
	"mugenreco-backend/pkg/common"
	apperrors "mugenreco-backend/pkg/errors"
	"mugenreco-backend/pkg/utils"

	"mugenreco-backend/application/services"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// AuthHandler handles signup, login, and session requests
type AuthHandler struct {
	authService *services.AuthService
	tokens      *auth.TokenManager
	errors      *apperrors.ErrorHandler
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AuthService,
	tokens *auth.TokenManager,
	errors *apperrors.ErrorHandler,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		errors:      errors,
		logger:      logger,
	}
}

// CredentialsRequest represents the request body for register and login
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UserResponse represents a user profile
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: schema.FormatTime(user.CreatedAt),
	})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}

	user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to issue token").WithCause(err))
		return
	}
	h.setSessionCookie(w, token)

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"username": user.Username,
		"token":    token,
	})
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "successfully logged out"})
}

// CurrentUser handles GET /api/user. It re-issues the session token so
// active sessions keep sliding forward.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	token, err := h.tokens.Issue(username)
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to issue token").WithCause(err))
		return
	}
	h.setSessionCookie(w, token)

	common.RespondJSON(w, http.StatusOK, map[string]string{"username": username})
}

// CheckUsername handles GET /api/check-username/{username}
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	candidate := struct {
		Username string `validate:"required,username"`
	}{Username: chi.URLParam(r, "username")}
	if err := utils.ValidateStruct(candidate); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	available := false
	_, err := h.authService.GetProfile(r.Context(), candidate.Username)
	switch {
	case apperrors.IsNotFound(err):
		available = true
	case err != nil:
		h.errors.Handle(w, r, err)
		return
	}

	message := "username is already taken"
	if available {
		message = "username is available"
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"is_available": available,
		"message":      message,
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "Bearer " + token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
