package handlers

import (
	"encoding/json"
	"net/http"

	"recycling-rewards-backend/internal/middleware"
	"recycling-rewards-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest represents the request body for creating an account
type CreateUserRequest struct {
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.DisplayName == "" {
		respondError(w, "display_name is required", http.StatusBadRequest)
		return
	}

	user, err := h.userService.CreateUser(ctx, req.DisplayName, req.PhotoURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		respondError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Msg("User created")

	respondJSON(w, user, http.StatusOK)
}

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get profile")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	user.Token = ""
	respondJSON(w, user, http.StatusOK)
}
