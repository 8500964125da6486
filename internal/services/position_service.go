package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"carteira/internal/db"
	"carteira/internal/engine"
	apperrors "carteira/internal/errors"
	"carteira/internal/models"
	"carteira/internal/repositories"
)

type positionService struct {
	db           *db.DB
	positions    repositories.PositionRepository
	transactions repositories.TransactionRepository
	assets       repositories.AssetRepository
	locks        *KeyedMutex
	logger       *zap.Logger
}

// NewPositionService creates a new position service. locks must be the
// same instance the transaction service uses, so that recording an event
// and recalculating the same key never interleave.
func NewPositionService(
	database *db.DB,
	positions repositories.PositionRepository,
	transactions repositories.TransactionRepository,
	assets repositories.AssetRepository,
	locks *KeyedMutex,
	logger *zap.Logger,
) PositionService {
	return &positionService{
		db:           database,
		positions:    positions,
		transactions: transactions,
		assets:       assets,
		locks:        locks,
		logger:       logger,
	}
}

// ProcessTransaction re-applies an already-stored transaction to its
// position. The engine's replay guard makes the call idempotent, so it is
// safe to invoke for delivery retries.
func (s *positionService) ProcessTransaction(ctx context.Context, transactionID string) (*models.Position, error) {
	tx, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.assets.GetByID(ctx, tx.AssetID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(positionKey(tx.PortfolioID, tx.AssetID))
	defer unlock()

	var result *models.Position
	err = s.db.Transaction(func(gtx *gorm.DB) error {
		positions := s.positions.WithTx(gtx)
		transactions := s.transactions.WithTx(gtx)

		next, err := nextState(ctx, positions, transactions, tx, true)
		if err != nil {
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

	s.logPosition("transaction processed", result)
	return result, nil
}

// Recalculate rebuilds the position for a key from its full transaction
// history, discarding whatever snapshot was stored.
func (s *positionService) Recalculate(ctx context.Context, portfolioID, assetID string) (*models.Position, error) {
	unlock := s.locks.Lock(positionKey(portfolioID, assetID))
	defer unlock()

	var result *models.Position
	err := s.db.Transaction(func(gtx *gorm.DB) error {
		positions := s.positions.WithTx(gtx)
		transactions := s.transactions.WithTx(gtx)

		history, err := transactions.ListByPortfolioAndAsset(ctx, portfolioID, assetID)
		if err != nil {
			return err
		}
		rebuilt, err := engine.Replay(history)
		if err != nil {
			return err
		}
		if rebuilt == nil {
			return &apperrors.ErrNotFound{Resource: "position", ID: positionKey(portfolioID, assetID)}
		}

		// Keep the stored identity and creation time when a snapshot exists.
		if stored, err := positions.FindByPortfolioAndAsset(ctx, portfolioID, assetID); err != nil {
			return err
		} else if stored != nil {
			rebuilt = rebuilt.Clone()
			rekey(rebuilt, stored.ID)
			rebuilt.CreatedAt = stored.CreatedAt
		}

		if err := positions.Save(ctx, rebuilt); err != nil {
			return err
		}
		result = rebuilt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logPosition("position recalculated", result)
	return result, nil
}

func (s *positionService) GetPosition(ctx context.Context, id string) (*models.Position, error) {
	return s.positions.GetByID(ctx, id)
}

func (s *positionService) FindPosition(ctx context.Context, portfolioID, assetID string) (*models.Position, error) {
	pos, err := s.positions.FindByPortfolioAndAsset(ctx, portfolioID, assetID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, &apperrors.ErrNotFound{Resource: "position", ID: positionKey(portfolioID, assetID)}
	}
	return pos, nil
}

func (s *positionService) ListPositions(ctx context.Context, filter *models.PositionFilter) ([]*models.Position, error) {
	return s.positions.List(ctx, filter)
}

func (s *positionService) GetSummary(ctx context.Context, portfolioID string) (*models.PositionSummary, error) {
	return s.positions.GetSummary(ctx, portfolioID)
}

func (s *positionService) logPosition(msg string, pos *models.Position) {
	if s.logger == nil || pos == nil {
		return
	}
	s.logger.Info(msg,
		zap.String("portfolio_id", pos.PortfolioID),
		zap.String("asset_id", pos.AssetID),
		zap.Int64("version", pos.Version),
		zap.String("quantity", pos.Quantity.String()),
		zap.String("total_invested", pos.TotalInvested.String()),
	)
}

// nextState computes the position state after tx. The incremental path is
// taken only when the stored snapshot's version matches the persisted event
// count; otherwise the history is replayed from scratch. stored marks
// whether tx is already part of the persisted stream.
func nextState(
	ctx context.Context,
	positions repositories.PositionRepository,
	transactions repositories.TransactionRepository,
	tx *models.Transaction,
	stored bool,
) (*models.Position, error) {
	pos, err := positions.FindByPortfolioAndAsset(ctx, tx.PortfolioID, tx.AssetID)
	if err != nil {
		return nil, err
	}
	count, err := transactions.CountByPortfolioAndAsset(ctx, tx.PortfolioID, tx.AssetID)
	if err != nil {
		return nil, err
	}

	expected := count
	if stored {
		// The stream already contains tx; the snapshot is current when it
		// has absorbed everything but this one event.
		expected = count - 1
	}

	if pos != nil && pos.Version == expected {
		return engine.Apply(pos, tx)
	}
	if pos == nil && expected == 0 {
		return engine.Apply(nil, tx)
	}

	// Stale snapshot: replay ground truth.
	history, err := transactions.ListByPortfolioAndAsset(ctx, tx.PortfolioID, tx.AssetID)
	if err != nil {
		return nil, err
	}
	if !stored {
		history = append(history, tx)
	}
	rebuilt, err := engine.Replay(history)
	if err != nil {
		return nil, err
	}
	if rebuilt == nil {
		return nil, apperrors.NotAllowed("Only buy transactions are allowed for this operation")
	}
	if pos != nil {
		rebuilt = rebuilt.Clone()
		rekey(rebuilt, pos.ID)
		rebuilt.CreatedAt = pos.CreatedAt
	}
	return rebuilt, nil
}

// rekey rewrites a rebuilt aggregate onto an existing position identity so
// the upsert replaces the stored row instead of inserting a second one.
func rekey(pos *models.Position, id string) {
	pos.ID = id
	for i := range pos.Transactions {
		pos.Transactions[i].PositionID = id
	}
	for i := range pos.Yields {
		pos.Yields[i].PositionID = id
	}
}
