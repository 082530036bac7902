package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"recycling-rewards-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Materials users are allowed to declare on a request
var materialTypes = map[string]bool{
	"Plastic":     true,
	"Glass":       true,
	"Paper":       true,
	"Metal":       true,
	"Electronics": true,
}

// RequestStore is the request-store contract used by the lifecycle manager
type RequestStore interface {
	Create(ctx context.Context, req *models.RecyclingRequest) error
	GetByID(ctx context.Context, id string) (*models.RecyclingRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*models.RecyclingRequest, error)
}

// RequestService owns the recycling-request lifecycle: creation, reads and
// the history projection. Status transitions up to REWARD/REJECTED are made
// by the back-office validation actor directly in the store; this service
// only renders them. The REWARD to REEDEMED step belongs to LedgerService.
type RequestService struct {
	requests RequestStore
}

// NewRequestService creates a new request service
func NewRequestService(requests RequestStore) *RequestService {
	return &RequestService{requests: requests}
}

// Create validates and persists a new recycling request in PROCESSING state
// with no reward assigned yet. Returns models.ErrValidation without
// persisting anything when the quantity is not positive or the material is
// outside the recognized vocabulary.
func (s *RequestService) Create(ctx context.Context, userID, materialType string, quantityKg float64, photoURL, description string) (*models.RecyclingRequest, error) {
	if quantityKg <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %v: %w", quantityKg, models.ErrValidation)
	}
	if !materialTypes[materialType] {
		return nil, fmt.Errorf("unrecognized material type %q: %w", materialType, models.ErrValidation)
	}

	req := &models.RecyclingRequest{
		ID:           uuid.New().String(),
		UserID:       userID,
		MaterialType: materialType,
		QuantityKg:   quantityKg,
		PhotoURL:     photoURL,
		Description:  description,
		RewardPoints: 0,
		Status:       models.StatusProcessing,
		RequestTime:  time.Now().UTC(),
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Info().
		Str("request_id", req.ID).
		Str("user_id", userID).
		Str("material_type", materialType).
		Float64("quantity_kg", quantityKg).
		Msg("Recycling request created")

	return req, nil
}

// Get retrieves a single request
func (s *RequestService) Get(ctx context.Context, id string) (*models.RecyclingRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// ListForUser returns the user's request history: claimable requests first,
// then in-progress ones, then terminal ones, newest first within a band.
func (s *RequestService) ListForUser(ctx context.Context, userID string) ([]*models.RecyclingRequest, error) {
	requests, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	sort.SliceStable(requests, func(i, j int) bool {
		ri, rj := historyRank(requests[i].Status), historyRank(requests[j].Status)
		if ri != rj {
			return ri < rj
		}
		return requests[i].RequestTime.After(requests[j].RequestTime)
	})

	return requests, nil
}

// historyRank orders the history listing: claimable, in progress, terminal
func historyRank(s models.RequestStatus) int {
	switch s {
	case models.StatusReward:
		return 0
	case models.StatusProcessing, models.StatusValidating, models.StatusUnknown:
		return 1
	case models.StatusRejected:
		return 2
	default: // REEDEMED
		return 3
	}
}
