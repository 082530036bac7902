package repository

import (
	"context"
	"errors"
	"fmt"

	"recycling-rewards-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RequestRepository handles database operations for recycling requests
type RequestRepository struct {
	db *pgxpool.Pool
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create persists a new recycling request
func (r *RequestRepository) Create(ctx context.Context, req *models.RecyclingRequest) error {
	query := `
		INSERT INTO recycling_requests
			(id, user_id, material_type, quantity_kg, photo_url, description,
			 reward_points, status, request_time, update_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.UserID, req.MaterialType, req.QuantityKg, req.PhotoURL,
		req.Description, req.RewardPoints, string(req.Status), req.RequestTime,
		req.UpdateTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create recycling request: %w", models.ErrLookup)
	}
	return nil
}

// GetByID retrieves a recycling request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.RecyclingRequest, error) {
	query := `
		SELECT id, user_id, material_type, quantity_kg, photo_url, description,
		       reward_points, status, request_time, update_time
		FROM recycling_requests
		WHERE id = $1
	`
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("recycling request %q: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recycling request: %w", models.ErrLookup)
	}
	return req, nil
}

// ListByUser retrieves all recycling requests owned by a user, newest first.
// Status-band ordering is applied by the history service.
func (r *RequestRepository) ListByUser(ctx context.Context, userID string) ([]*models.RecyclingRequest, error) {
	query := `
		SELECT id, user_id, material_type, quantity_kg, photo_url, description,
		       reward_points, status, request_time, update_time
		FROM recycling_requests
		WHERE user_id = $1
		ORDER BY request_time DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recycling requests: %w", models.ErrLookup)
	}
	defer rows.Close()

	var requests []*models.RecyclingRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recycling request: %w", models.ErrLookup)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recycling requests: %w", models.ErrLookup)
	}

	return requests, nil
}

// scanRequest reads one request row, parsing the stored status through the
// UNKNOWN fallback so a bad row cannot break a whole listing.
func scanRequest(row pgx.Row) (*models.RecyclingRequest, error) {
	var req models.RecyclingRequest
	var status string
	err := row.Scan(
		&req.ID, &req.UserID, &req.MaterialType, &req.QuantityKg, &req.PhotoURL,
		&req.Description, &req.RewardPoints, &status, &req.RequestTime,
		&req.UpdateTime,
	)
	if err != nil {
		return nil, err
	}
	req.Status = models.ParseRequestStatus(status)
	return &req, nil
}
