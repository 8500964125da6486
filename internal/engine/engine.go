// Package engine recalculates investment positions from transaction events.
//
// All functions are pure: they take the current position (or nil) plus a
// transaction and return a new position value, leaving the input untouched.
// Replay over the full ordered history is the source of truth; Apply on a
// stored snapshot is an O(1) optimization the coordinator may use only when
// the snapshot version matches the persisted event count.
package engine

import (
	"sort"

	"github.com/google/uuid"

	apperrors "carteira/internal/errors"
	"carteira/internal/models"
)

// Apply folds one transaction into a position and returns the next state.
// A nil position is empty state: only a buy may create one. Re-applying a
// transaction the position has already absorbed is a no-op, so the result
// is replay-safe regardless of delivery retries.
func Apply(pos *models.Position, tx *models.Transaction) (*models.Position, error) {
	if !tx.Type.Valid() {
		return nil, apperrors.NotAllowed("Unsupported transaction type")
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if pos == nil {
		if !tx.IsBuy() {
			return nil, apperrors.NotAllowed("Only buy transactions are allowed for this operation")
		}
		pos = newPosition(tx)
	}

	if pos.HasApplied(tx.ID) {
		return pos.Clone(), nil
	}

	if tx.Price.Currency != pos.TotalInvested.Currency {
		return nil, &apperrors.ErrCurrencyMismatch{
			Left:  pos.TotalInvested.Currency,
			Right: tx.Price.Currency,
		}
	}

	next := pos.Clone()

	var err error
	switch tx.Type {
	case models.TransactionBuy:
		err = applyBuy(next, tx)
	case models.TransactionSell:
		err = applySell(next, tx)
	case models.TransactionDividend:
		applyDividend(next, tx)
	}
	if err != nil {
		return nil, err
	}

	// Mark-to-market: every applied event carries the latest traded price.
	next.CurrentPrice = tx.Price
	next.Version++

	return next, nil
}

// Replay rebuilds a position from scratch by folding the full transaction
// history in executedAt order. It returns (nil, nil) for an empty history.
// Duplicate entries collapse through Apply's replay guard, which makes the
// fold idempotent.
func Replay(txs []*models.Transaction) (*models.Position, error) {
	ordered := make([]*models.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ExecutedAt.Equal(ordered[j].ExecutedAt) {
			return ordered[i].ExecutedAt.Before(ordered[j].ExecutedAt)
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var pos *models.Position
	for _, tx := range ordered {
		next, err := Apply(pos, tx)
		if err != nil {
			return nil, err
		}
		pos = next
	}
	return pos, nil
}

func newPosition(tx *models.Transaction) *models.Position {
	return &models.Position{
		ID:            uuid.NewString(),
		PortfolioID:   tx.PortfolioID,
		AssetID:       tx.AssetID,
		Quantity:      models.ZeroQuantity(),
		TotalInvested: models.ZeroMoney(tx.Price.Currency),
		CurrentPrice:  models.ZeroMoney(tx.Price.Currency),
	}
}

// applyBuy increases the held quantity and adds the full acquisition cost
// (quantity x price + fees) to the basis.
func applyBuy(pos *models.Position, tx *models.Transaction) error {
	gross, err := tx.Price.Mul(tx.Quantity.Value)
	if err != nil {
		return err
	}

	fees := tx.Fees
	if fees.Currency == "" {
		fees = models.ZeroMoney(tx.Price.Currency)
	}
	cost, err := gross.Add(fees)
	if err != nil {
		return err
	}

	invested, err := pos.TotalInvested.Add(cost)
	if err != nil {
		return err
	}

	pos.Quantity = pos.Quantity.Add(tx.Quantity)
	pos.TotalInvested = invested
	appendTransaction(pos, tx)
	return nil
}

// applySell removes the sold fraction of the basis: selling s of Q held
// units scales totalInvested by (Q-s)/Q. The realized sale price never
// feeds into the remaining basis, so the average cost is unchanged.
func applySell(pos *models.Position, tx *models.Transaction) error {
	if tx.Quantity.GreaterThan(pos.Quantity) {
		return &apperrors.ErrInsufficientQuantity{
			Available: pos.Quantity.String(),
			Requested: tx.Quantity.String(),
		}
	}

	remaining, err := pos.Quantity.Sub(tx.Quantity)
	if err != nil {
		return err
	}

	// pos.Quantity > 0 here: the sell quantity is validated positive and
	// is not greater than the held quantity.
	factor := remaining.Value.Div(pos.Quantity.Value)
	invested, err := pos.TotalInvested.Mul(factor)
	if err != nil {
		return err
	}

	pos.Quantity = remaining
	pos.TotalInvested = invested
	appendTransaction(pos, tx)
	return nil
}

// applyDividend records distributed income. Quantity and basis stay put.
func applyDividend(pos *models.Position, tx *models.Transaction) {
	pos.Yields = append(pos.Yields, models.PositionYield{
		ID:         uuid.NewString(),
		PositionID: pos.ID,
		YieldID:    tx.ID,
		Income:     tx.Income,
		Date:       tx.ExecutedAt,
	})
}

func appendTransaction(pos *models.Position, tx *models.Transaction) {
	pos.Transactions = append(pos.Transactions, models.PositionTransaction{
		ID:            uuid.NewString(),
		PositionID:    pos.ID,
		TransactionID: tx.ID,
		Type:          tx.Type,
		Quantity:      tx.Quantity,
		Price:         tx.Price,
		Date:          tx.ExecutedAt,
	})
}
