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

type positionRepository struct {
	db *db.DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(database *db.DB) PositionRepository {
	return &positionRepository{db: database}
}

func (r *positionRepository) WithTx(tx *gorm.DB) PositionRepository {
	return &positionRepository{db: db.New(tx)}
}

func (r *positionRepository) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Transactions", func(q *gorm.DB) *gorm.DB { return q.Order("date ASC") }).
		Preload("Yields", func(q *gorm.DB) *gorm.DB { return q.Order("date ASC") })
}

func (r *positionRepository) GetByID(ctx context.Context, id string) (*models.Position, error) {
	if id == "" {
		return nil, &apperrors.ErrNotFound{Resource: "position", ID: id}
	}

	var pos models.Position
	if err := r.preload(ctx).First(&pos, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Resource: "position", ID: id}
		}
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	return &pos, nil
}

func (r *positionRepository) FindByPortfolioAndAsset(ctx context.Context, portfolioID, assetID string) (*models.Position, error) {
	var pos models.Position
	err := r.preload(ctx).
		Where("portfolio_id = ? AND asset_id = ?", portfolioID, assetID).
		First(&pos).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find position: %w", err)
	}
	return &pos, nil
}

func (r *positionRepository) List(ctx context.Context, filter *models.PositionFilter) ([]*models.Position, error) {
	query := r.preload(ctx)

	if filter != nil {
		if filter.PortfolioID != "" {
			query = query.Where("portfolio_id = ?", filter.PortfolioID)
		}
		if filter.AssetID != "" {
			query = query.Where("asset_id = ?", filter.AssetID)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
			if filter.Offset > 0 {
				query = query.Offset(filter.Offset)
			}
		}
	}

	var positions []*models.Position
	if err := query.Order("created_at ASC").Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// Save writes the aggregate and its applied records as one unit. The child
// rows are replaced wholesale: the engine recomputes them, the database
// only mirrors the latest state.
func (r *positionRepository) Save(ctx context.Context, pos *models.Position) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Transactions", "Yields").Save(pos).Error; err != nil {
			return fmt.Errorf("failed to save position: %w", err)
		}
		if err := tx.Where("position_id = ?", pos.ID).Delete(&models.PositionTransaction{}).Error; err != nil {
			return fmt.Errorf("failed to clear position transactions: %w", err)
		}
		if err := tx.Where("position_id = ?", pos.ID).Delete(&models.PositionYield{}).Error; err != nil {
			return fmt.Errorf("failed to clear position yields: %w", err)
		}
		if len(pos.Transactions) > 0 {
			if err := tx.Create(&pos.Transactions).Error; err != nil {
				return fmt.Errorf("failed to save position transactions: %w", err)
			}
		}
		if len(pos.Yields) > 0 {
			if err := tx.Create(&pos.Yields).Error; err != nil {
				return fmt.Errorf("failed to save position yields: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save position aggregate: %w", err)
	}
	return nil
}

func (r *positionRepository) GetSummary(ctx context.Context, portfolioID string) (*models.PositionSummary, error) {
	query := `
		SELECT
			COUNT(*) AS total_positions,
			COALESCE(SUM(p.total_invested_amount), 0) AS total_invested,
			COALESCE((
				SELECT SUM(y.income_amount)
				FROM position_yields y
				JOIN positions p2 ON y.position_id = p2.id
				WHERE p2.portfolio_id = ?
			), 0) AS total_yield,
			COALESCE(MAX(p.total_invested_currency), '') AS currency
		FROM positions p
		WHERE p.portfolio_id = ?`

	summary := &models.PositionSummary{PortfolioID: portfolioID}
	err := r.db.WithContext(ctx).Raw(query, portfolioID, portfolioID).Scan(summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get position summary: %w", err)
	}
	return summary, nil
}
