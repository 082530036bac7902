package repository

import (
	"context"
	"fmt"

	"recycling-rewards-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository reads the static reward catalog
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// List retrieves the reward catalog, cheapest rewards first
func (r *CatalogRepository) List(ctx context.Context) ([]*models.RewardCatalogEntry, error) {
	query := `
		SELECT id, title, points_required
		FROM reward_catalog
		ORDER BY points_required ASC, title ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reward catalog: %w", models.ErrLookup)
	}
	defer rows.Close()

	var entries []*models.RewardCatalogEntry
	for rows.Next() {
		var entry models.RewardCatalogEntry
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.PointsRequired); err != nil {
			return nil, fmt.Errorf("failed to scan reward catalog entry: %w", models.ErrLookup)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reward catalog: %w", models.ErrLookup)
	}

	return entries, nil
}
