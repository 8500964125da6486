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

type transactionRepository struct {
	db *db.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(database *db.DB) TransactionRepository {
	return &transactionRepository{db: database}
}

func (r *transactionRepository) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db.New(tx)}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	if id == "" {
		return nil, &apperrors.ErrNotFound{Resource: "transaction", ID: id}
	}

	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Resource: "transaction", ID: id}
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

func (r *transactionRepository) ListByPortfolioAndAsset(ctx context.Context, portfolioID, assetID string) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND asset_id = ?", portfolioID, assetID).
		Order("executed_at ASC, created_at ASC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) CountByPortfolioAndAsset(ctx context.Context, portfolioID, assetID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("portfolio_id = ? AND asset_id = ?", portfolioID, assetID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
