package handlers

import (
	"net/http"

	"recycling-rewards-backend/internal/middleware"
	"recycling-rewards-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RewardHandler handles reward-catalog and point-resolution HTTP requests
type RewardHandler struct {
	catalogService *services.CatalogService
	pointService   *services.PointService
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(catalogService *services.CatalogService, pointService *services.PointService) *RewardHandler {
	return &RewardHandler{
		catalogService: catalogService,
		pointService:   pointService,
	}
}

// ListRewards handles GET /api/v1/rewards
func (h *RewardHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.catalogService.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list reward catalog")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	response := map[string]interface{}{
		"rewards": entries,
	}
	respondJSON(w, response, http.StatusOK)
}

// ResolvePoint handles GET /api/v1/points/{code}, the manual-entry
// counterpart of the scan pipeline
func (h *RewardHandler) ResolvePoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	code := chi.URLParam(r, "code")

	point, err := h.pointService.Resolve(ctx, code)
	if err != nil {
		log.Debug().
			Err(err).
			Str("user_id", userID).
			Str("point_code", code).
			Msg("Point resolution failed")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, point, http.StatusOK)
}
