package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"recycling-rewards-backend/internal/middleware"
	"recycling-rewards-backend/internal/models"
	"recycling-rewards-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RequestHandler handles recycling-request HTTP requests
type RequestHandler struct {
	requestService *services.RequestService
	ledgerService  *services.LedgerService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService, ledgerService *services.LedgerService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		ledgerService:  ledgerService,
	}
}

// CreateRequestBody represents the request body for creating a recycling request
type CreateRequestBody struct {
	MaterialType string  `json:"material_type"`
	QuantityKg   float64 `json:"quantity_kg"`
	PhotoURL     string  `json:"photo_url"`
	Description  string  `json:"description"`
}

// CreateRequest handles POST /api/v1/requests
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var body CreateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.requestService.Create(ctx, userID, body.MaterialType, body.QuantityKg, body.PhotoURL, body.Description)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("material_type", body.MaterialType).
			Msg("Failed to create recycling request")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, req, http.StatusCreated)
}

// GetRequest handles GET /api/v1/requests/{request_id}
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "request_id")

	req, err := h.requestService.Get(ctx, requestID)
	if err != nil {
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	if req.UserID != userID {
		respondError(w, "request not found", http.StatusNotFound)
		return
	}

	respondJSON(w, req, http.StatusOK)
}

// ListRequests handles GET /api/v1/requests
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requests, err := h.requestService.ListForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list requests")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	response := map[string]interface{}{
		"requests": requests,
		"total":    len(requests),
	}
	respondJSON(w, response, http.StatusOK)
}

// RedeemRequest handles POST /api/v1/requests/{request_id}/redeem
func (h *RequestHandler) RedeemRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "request_id")

	req, err := h.requestService.Get(ctx, requestID)
	if err != nil {
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	if req.UserID != userID {
		respondError(w, "request not found", http.StatusNotFound)
		return
	}

	if err := h.ledgerService.Redeem(ctx, requestID, userID, req.RewardPoints); err != nil {
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Str("user_id", userID).
			Msg("Failed to redeem reward")

		if errors.Is(err, models.ErrConflict) {
			respondError(w, "already claimed", http.StatusConflict)
			return
		}
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	// Report what the ledger actually credited, which may differ from the
	// pre-read if validation adjusted the reward concurrently
	points := req.RewardPoints
	if redeemed, err := h.requestService.Get(ctx, requestID); err == nil {
		points = redeemed.RewardPoints
	}

	response := map[string]interface{}{
		"request_id": requestID,
		"points":     points,
		"status":     models.StatusRedeemed,
	}
	respondJSON(w, response, http.StatusOK)
}
