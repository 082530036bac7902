package repository

import (
	"context"
	"errors"
	"fmt"

	"recycling-rewards-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user account
func (r *UserRepository) Create(ctx context.Context, user *models.UserAccount) error {
	query := `
		INSERT INTO users (id, display_name, photo_url, points_balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.DisplayName, user.PhotoURL, user.PointsBalance, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", models.ErrLookup)
	}
	return nil
}

// GetByID retrieves a user account by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.UserAccount, error) {
	query := `
		SELECT id, display_name, photo_url, points_balance, created_at
		FROM users
		WHERE id = $1
	`
	var user models.UserAccount
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.DisplayName, &user.PhotoURL, &user.PointsBalance, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", models.ErrLookup)
	}
	return &user, nil
}
