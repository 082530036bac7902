package handlers

import (
	"encoding/json"
	"net/http"

	"recycling-rewards-backend/internal/middleware"
	"recycling-rewards-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler handles evidence-photo upload requests
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// CreateUploadRequest represents the request body for an evidence upload
type CreateUploadRequest struct {
	ContentType string `json:"content_type"`
}

// CreateUpload handles POST /api/v1/uploads
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	upload, err := h.uploadService.CreateEvidenceUpload(ctx, userID, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to create evidence upload")
		respondError(w, "Failed to create upload", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_url", upload.PhotoURL).
		Msg("Evidence upload created")

	respondJSON(w, upload, http.StatusOK)
}
