package services

import (
	"context"

	"recycling-rewards-backend/internal/models"
)

// CatalogStore is the reward-catalog read contract
type CatalogStore interface {
	List(ctx context.Context) ([]*models.RewardCatalogEntry, error)
}

// CatalogService serves the static reward catalog
type CatalogService struct {
	catalog CatalogStore
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog CatalogStore) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// List returns the reward catalog
func (s *CatalogService) List(ctx context.Context) ([]*models.RewardCatalogEntry, error) {
	return s.catalog.List(ctx)
}
