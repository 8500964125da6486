package services

import (
	"context"

	"carteira/internal/models"
)

// TransactionService records transaction events and keeps the derived
// position in step within the same database transaction.
type TransactionService interface {
	RecordTransaction(ctx context.Context, tx *models.Transaction) (*models.Position, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, portfolioID, assetID string) ([]*models.Transaction, error)
}

// PositionService is the ledger coordinator: it resolves the event and its
// asset, serializes per (portfolio, asset) key, runs the recalculation
// engine and persists the result.
type PositionService interface {
	ProcessTransaction(ctx context.Context, transactionID string) (*models.Position, error)
	Recalculate(ctx context.Context, portfolioID, assetID string) (*models.Position, error)
	GetPosition(ctx context.Context, id string) (*models.Position, error)
	FindPosition(ctx context.Context, portfolioID, assetID string) (*models.Position, error)
	ListPositions(ctx context.Context, filter *models.PositionFilter) ([]*models.Position, error)
	GetSummary(ctx context.Context, portfolioID string) (*models.PositionSummary, error)
}

// AssetService defines the interface for asset master data operations
type AssetService interface {
	CreateAsset(ctx context.Context, asset *models.Asset) error
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	ListAssets(ctx context.Context) ([]*models.Asset, error)
}
