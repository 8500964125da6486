package repositories

import (
	"context"

	"gorm.io/gorm"

	"carteira/internal/models"
)

// TransactionRepository defines the interface for transaction event storage.
// The stream is append-only: there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByPortfolioAndAsset(ctx context.Context, portfolioID, assetID string) ([]*models.Transaction, error)
	CountByPortfolioAndAsset(ctx context.Context, portfolioID, assetID string) (int64, error)

	// WithTx returns a repository bound to an open database transaction,
	// so the event write and the position write can share one boundary.
	WithTx(tx *gorm.DB) TransactionRepository
}

// PositionRepository defines the interface for position aggregate storage.
type PositionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Position, error)
	// FindByPortfolioAndAsset returns (nil, nil) when no position exists
	// for the key: absence is a valid engine input, not an error.
	FindByPortfolioAndAsset(ctx context.Context, portfolioID, assetID string) (*models.Position, error)
	List(ctx context.Context, filter *models.PositionFilter) ([]*models.Position, error)
	// Save upserts the aggregate together with its applied-transaction and
	// yield records as one unit.
	Save(ctx context.Context, pos *models.Position) error
	GetSummary(ctx context.Context, portfolioID string) (*models.PositionSummary, error)

	WithTx(tx *gorm.DB) PositionRepository
}

// AssetRepository defines the interface for asset master data.
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context) ([]*models.Asset, error)
}
