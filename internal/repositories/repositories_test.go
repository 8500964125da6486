package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carteira/internal/db"
	apperrors "carteira/internal/errors"
	"carteira/internal/models"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the
	// same in-memory store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database := db.New(gdb)
	require.NoError(t, database.Migrate())
	return database
}

func newBuyTransaction(portfolioID, assetID string, qty, price int64, executedAt time.Time) *models.Transaction {
	return &models.Transaction{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		AssetID:     assetID,
		Type:        models.TransactionBuy,
		Quantity:    models.Quantity{Value: decimal.NewFromInt(qty)},
		Price:       models.Money{Amount: decimal.NewFromInt(price), Currency: "BRL"},
		Fees:        models.Money{Amount: decimal.Zero, Currency: "BRL"},
		Income:      models.Money{Amount: decimal.Zero, Currency: "BRL"},
		ExecutedAt:  executedAt,
	}
}

func TestTransactionRepositoryCreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := NewTransactionRepository(database)
	ctx := context.Background()

	tx := newBuyTransaction("portfolio-1", "asset-1", 100, 10, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, tx))

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, models.TransactionBuy, got.Type)
	assert.True(t, got.Quantity.Value.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.Price.Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "BRL", got.Price.Currency)
}

func TestTransactionRepositoryGetMissing(t *testing.T) {
	database := setupTestDB(t)
	repo := NewTransactionRepository(database)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	var notFound *apperrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "transaction", notFound.Resource)
}

func TestTransactionRepositoryListOrdersByExecutedAt(t *testing.T) {
	database := setupTestDB(t)
	repo := NewTransactionRepository(database)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	later := newBuyTransaction("portfolio-1", "asset-1", 50, 12, base.Add(time.Hour))
	earlier := newBuyTransaction("portfolio-1", "asset-1", 100, 10, base)
	other := newBuyTransaction("portfolio-2", "asset-1", 10, 10, base)

	// Insert out of order on purpose.
	require.NoError(t, repo.Create(ctx, later))
	require.NoError(t, repo.Create(ctx, earlier))
	require.NoError(t, repo.Create(ctx, other))

	list, err := repo.ListByPortfolioAndAsset(ctx, "portfolio-1", "asset-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, earlier.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)

	count, err := repo.CountByPortfolioAndAsset(ctx, "portfolio-1", "asset-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func newTestPosition(portfolioID, assetID string) *models.Position {
	posID := uuid.NewString()
	return &models.Position{
		ID:            posID,
		PortfolioID:   portfolioID,
		AssetID:       assetID,
		Quantity:      models.Quantity{Value: decimal.NewFromInt(100)},
		TotalInvested: models.Money{Amount: decimal.NewFromInt(1000), Currency: "BRL"},
		CurrentPrice:  models.Money{Amount: decimal.NewFromInt(10), Currency: "BRL"},
		Version:       1,
		Transactions: []models.PositionTransaction{
			{
				ID:            uuid.NewString(),
				PositionID:    posID,
				TransactionID: uuid.NewString(),
				Type:          models.TransactionBuy,
				Quantity:      models.Quantity{Value: decimal.NewFromInt(100)},
				Price:         models.Money{Amount: decimal.NewFromInt(10), Currency: "BRL"},
				Date:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestPositionRepositorySaveAndFind(t *testing.T) {
	database := setupTestDB(t)
	repo := NewPositionRepository(database)
	ctx := context.Background()

	pos := newTestPosition("portfolio-1", "asset-1")
	require.NoError(t, repo.Save(ctx, pos))

	got, err := repo.FindByPortfolioAndAsset(ctx, "portfolio-1", "asset-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, pos.ID, got.ID)
	assert.True(t, got.Quantity.Value.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.TotalInvested.Amount.Equal(decimal.NewFromInt(1000)))
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, pos.Transactions[0].TransactionID, got.Transactions[0].TransactionID)
}

func TestPositionRepositoryFindAbsentReturnsNil(t *testing.T) {
	database := setupTestDB(t)
	repo := NewPositionRepository(database)

	got, err := repo.FindByPortfolioAndAsset(context.Background(), "portfolio-1", "asset-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPositionRepositorySaveReplacesChildren(t *testing.T) {
	database := setupTestDB(t)
	repo := NewPositionRepository(database)
	ctx := context.Background()

	pos := newTestPosition("portfolio-1", "asset-1")
	require.NoError(t, repo.Save(ctx, pos))

	// Recalculated state carries one more applied transaction and a yield.
	next := pos.Clone()
	next.Version = 3
	next.Quantity = models.Quantity{Value: decimal.NewFromInt(150)}
	next.Transactions = append(next.Transactions, models.PositionTransaction{
		ID:            uuid.NewString(),
		PositionID:    next.ID,
		TransactionID: uuid.NewString(),
		Type:          models.TransactionBuy,
		Quantity:      models.Quantity{Value: decimal.NewFromInt(50)},
		Price:         models.Money{Amount: decimal.NewFromInt(12), Currency: "BRL"},
		Date:          time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
	})
	next.Yields = append(next.Yields, models.PositionYield{
		ID:         uuid.NewString(),
		PositionID: next.ID,
		YieldID:    uuid.NewString(),
		Income:     models.Money{Amount: decimal.NewFromInt(5), Currency: "BRL"},
		Date:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, repo.Save(ctx, next))

	got, err := repo.GetByID(ctx, pos.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.Len(t, got.Transactions, 2)
	assert.Len(t, got.Yields, 1)
}

func TestPositionRepositoryGetMissing(t *testing.T) {
	database := setupTestDB(t)
	repo := NewPositionRepository(database)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	var notFound *apperrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "position", notFound.Resource)
}

func TestPositionRepositoryGetSummary(t *testing.T) {
	database := setupTestDB(t)
	repo := NewPositionRepository(database)
	ctx := context.Background()

	first := newTestPosition("portfolio-1", "asset-1")
	first.Yields = []models.PositionYield{
		{
			ID:         uuid.NewString(),
			PositionID: first.ID,
			YieldID:    uuid.NewString(),
			Income:     models.Money{Amount: decimal.NewFromInt(25), Currency: "BRL"},
			Date:       time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	second := newTestPosition("portfolio-1", "asset-2")
	other := newTestPosition("portfolio-2", "asset-1")
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, other))

	summary, err := repo.GetSummary(ctx, "portfolio-1")
	require.NoError(t, err)
	assert.Equal(t, "portfolio-1", summary.PortfolioID)
	assert.Equal(t, 2, summary.TotalPositions)
	assert.True(t, summary.TotalInvested.Equal(decimal.NewFromInt(2000)))
	assert.True(t, summary.TotalYield.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "BRL", summary.Currency)
}

func TestAssetRepositoryCreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAssetRepository(database)
	ctx := context.Background()

	asset := &models.Asset{ID: uuid.NewString(), Symbol: "PETR4", Name: "Petrobras PN"}
	require.NoError(t, repo.Create(ctx, asset))

	got, err := repo.GetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "PETR4", got.Symbol)

	_, err = repo.GetByID(ctx, "missing")
	var notFound *apperrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)

	assets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}
