package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"carteira/internal/db"
	"carteira/internal/models"
	"carteira/internal/repositories"
)

type transactionService struct {
	db           *db.DB
	transactions repositories.TransactionRepository
	positions    repositories.PositionRepository
	assets       repositories.AssetRepository
	locks        *KeyedMutex
	logger       *zap.Logger
}

// NewTransactionService creates a new transaction service. locks must be
// the same instance the position service uses, so that recording an event
// and recalculating the same key never interleave.
func NewTransactionService(
	database *db.DB,
	transactions repositories.TransactionRepository,
	positions repositories.PositionRepository,
	assets repositories.AssetRepository,
	locks *KeyedMutex,
	logger *zap.Logger,
) TransactionService {
	return &transactionService{
		db:           database,
		transactions: transactions,
		positions:    positions,
		assets:       assets,
		locks:        locks,
		logger:       logger,
	}
}

// RecordTransaction appends one event to the stream and updates the derived
// position in the same database transaction, so a crash can never leave one
// write without the other. An event the engine rejects is not stored at all.
func (s *transactionService) RecordTransaction(ctx context.Context, tx *models.Transaction) (*models.Position, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.ExecutedAt.IsZero() {
		tx.ExecutedAt = time.Now()
	}
	normalizeCurrencies(tx)

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.assets.GetByID(ctx, tx.AssetID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(positionKey(tx.PortfolioID, tx.AssetID))
	defer unlock()

	var result *models.Position
	err := s.db.Transaction(func(gtx *gorm.DB) error {
		transactions := s.transactions.WithTx(gtx)
		positions := s.positions.WithTx(gtx)

		next, err := nextState(ctx, positions, transactions, tx, false)
		if err != nil {
			return err
		}
		if err := transactions.Create(ctx, tx); err != nil {
			return err
		}
		if err := positions.Save(ctx, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("transaction recorded",
			zap.String("transaction_id", tx.ID),
			zap.String("type", string(tx.Type)),
			zap.String("portfolio_id", tx.PortfolioID),
			zap.String("asset_id", tx.AssetID),
		)
	}
	return result, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

func (s *transactionService) ListTransactions(ctx context.Context, portfolioID, assetID string) ([]*models.Transaction, error) {
	return s.transactions.ListByPortfolioAndAsset(ctx, portfolioID, assetID)
}

// normalizeCurrencies fills currency defaults before validation: the price
// currency defaults to BRL, fees and income inherit the price currency when
// absent.
func normalizeCurrencies(tx *models.Transaction) {
	if tx.Price.Currency == "" {
		tx.Price.Currency = models.DefaultCurrency
	}
	if tx.Fees.Currency == "" {
		tx.Fees = models.Money{Amount: tx.Fees.Amount, Currency: tx.Price.Currency}
	}
	if tx.Income.Currency == "" {
		tx.Income = models.Money{Amount: tx.Income.Amount, Currency: tx.Price.Currency}
	}
}
