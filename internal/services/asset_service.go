package services

import (
	"context"

	"github.com/google/uuid"

	"carteira/internal/models"
	"carteira/internal/repositories"
)

type assetService struct {
	assets repositories.AssetRepository
}

// NewAssetService creates a new asset service
func NewAssetService(assets repositories.AssetRepository) AssetService {
	return &assetService{assets: assets}
}

func (s *assetService) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if err := asset.Validate(); err != nil {
		return err
	}
	return s.assets.Create(ctx, asset)
}

func (s *assetService) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	return s.assets.GetByID(ctx, id)
}

func (s *assetService) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	return s.assets.List(ctx)
}
