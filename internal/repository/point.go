package repository

import (
	"context"
	"errors"
	"fmt"

	"recycling-rewards-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PointRepository reads the recycling-point directory
type PointRepository struct {
	db *pgxpool.Pool
}

// NewPointRepository creates a new point repository
func NewPointRepository(db *pgxpool.Pool) *PointRepository {
	return &PointRepository{db: db}
}

// GetByCode retrieves a recycling point by its scannable code. Absence maps
// to models.ErrNotFound; store failures map to models.ErrLookup so callers
// can offer a retry instead of reporting an invalid code.
func (r *PointRepository) GetByCode(ctx context.Context, code string) (*models.RecyclingPoint, error) {
	query := `
		SELECT code, latitude, longitude, description
		FROM recycling_points
		WHERE code = $1
	`
	var point models.RecyclingPoint
	err := r.db.QueryRow(ctx, query, code).Scan(
		&point.Code, &point.Latitude, &point.Longitude, &point.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("recycling point %q: %w", code, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recycling point: %w", models.ErrLookup)
	}
	return &point, nil
}
