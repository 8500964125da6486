package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"carteira/internal/db"
	apperrors "carteira/internal/errors"
	"carteira/internal/models"
)

type assetRepository struct {
	db *db.DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(database *db.DB) AssetRepository {
	return &assetRepository{db: database}
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	if id == "" {
		return nil, &apperrors.ErrNotFound{Resource: "asset", ID: id}
	}

	var asset models.Asset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Resource: "asset", ID: id}
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context) ([]*models.Asset, error) {
	var assets []*models.Asset
	if err := r.db.WithContext(ctx).Order("symbol ASC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}
