package models

import (
	"time"

	apperrors "carteira/internal/errors"
)

// TransactionType classifies a ledger event.
type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionDividend TransactionType = "dividend"
)

// Valid reports whether the type is one the engine supports.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDividend:
		return true
	}
	return false
}

// Transaction is one immutable BUY/SELL/DIVIDEND event for a
// (portfolio, asset) pair. Once recorded it is never updated.
type Transaction struct {
	ID          string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	PortfolioID string          `json:"portfolio_id" gorm:"column:portfolio_id;type:varchar(255);not null;index:idx_transactions_key"`
	AssetID     string          `json:"asset_id" gorm:"column:asset_id;type:varchar(255);not null;index:idx_transactions_key"`
	Type        TransactionType `json:"type" gorm:"column:type;type:varchar(20);not null;index"`

	// Quantity is meaningful for buy/sell only; dividends carry none.
	Quantity Quantity `json:"quantity" gorm:"embedded;embeddedPrefix:quantity_"`

	Price Money `json:"price" gorm:"embedded;embeddedPrefix:price_"`

	// Fees applies to buy/sell, Income to dividend.
	Fees   Money `json:"fees" gorm:"embedded;embeddedPrefix:fees_"`
	Income Money `json:"income" gorm:"embedded;embeddedPrefix:income_"`

	ExecutedAt time.Time `json:"executed_at" gorm:"column:executed_at;not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// IsBuy reports whether this transaction may create a position from empty state.
func (t *Transaction) IsBuy() bool {
	return t.Type == TransactionBuy
}

// Validate validates the transaction data
func (t *Transaction) Validate() error {
	if t.PortfolioID == "" {
		return &apperrors.ErrValidation{Field: "portfolio_id", Message: "is required"}
	}
	if t.AssetID == "" {
		return &apperrors.ErrValidation{Field: "asset_id", Message: "is required"}
	}
	if !t.Type.Valid() {
		return apperrors.NotAllowed("Unsupported transaction type")
	}
	if t.ExecutedAt.IsZero() {
		return &apperrors.ErrValidation{Field: "executed_at", Message: "is required"}
	}
	if t.Price.Currency == "" {
		return &apperrors.ErrValidation{Field: "price", Message: "currency is required"}
	}
	if t.Price.IsNegative() {
		return &apperrors.ErrValidation{Field: "price", Message: "must not be negative"}
	}

	switch t.Type {
	case TransactionBuy, TransactionSell:
		if !t.Quantity.IsPositive() {
			return &apperrors.ErrValidation{Field: "quantity", Message: "must be positive"}
		}
		if t.Fees.IsNegative() {
			return &apperrors.ErrValidation{Field: "fees", Message: "must not be negative"}
		}
		if t.Fees.Currency != "" && t.Fees.Currency != t.Price.Currency {
			return &apperrors.ErrCurrencyMismatch{Left: t.Price.Currency, Right: t.Fees.Currency}
		}
	case TransactionDividend:
		if !t.Income.IsPositive() {
			return &apperrors.ErrValidation{Field: "income", Message: "must be positive"}
		}
		if t.Income.Currency != t.Price.Currency {
			return &apperrors.ErrCurrencyMismatch{Left: t.Price.Currency, Right: t.Income.Currency}
		}
	}

	return nil
}
