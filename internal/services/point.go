package services

import (
	"context"
	"errors"

	"recycling-rewards-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// PointStore is the recycling-point directory read contract
type PointStore interface {
	GetByCode(ctx context.Context, code string) (*models.RecyclingPoint, error)
}

// PointService resolves decoded codes against the recycling-point directory
type PointService struct {
	points PointStore
}

// NewPointService creates a new point service
func NewPointService(points PointStore) *PointService {
	return &PointService{points: points}
}

// Resolve looks up a decoded identity. models.ErrNotFound means the code is
// not a recycling point; models.ErrLookup means the directory was
// unreachable and the caller may retry. Side-effect free and idempotent.
func (s *PointService) Resolve(ctx context.Context, code string) (*models.RecyclingPoint, error) {
	point, err := s.points.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrLookup) {
			log.Warn().Err(err).Str("point_code", code).Msg("Point directory unreachable")
		}
		return nil, err
	}
	return point, nil
}
