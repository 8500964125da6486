package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionTransaction is one buy/sell event already applied to a position.
// The unique index on TransactionID is the persistence-level replay guard.
type PositionTransaction struct {
	ID            string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	PositionID    string          `json:"position_id" gorm:"column:position_id;type:varchar(255);not null;index"`
	TransactionID string          `json:"transaction_id" gorm:"column:transaction_id;type:varchar(255);not null;uniqueIndex"`
	Type          TransactionType `json:"type" gorm:"column:type;type:varchar(20);not null"`
	Quantity      Quantity        `json:"quantity" gorm:"embedded;embeddedPrefix:quantity_"`
	Price         Money           `json:"price" gorm:"embedded;embeddedPrefix:price_"`
	Date          time.Time       `json:"date" gorm:"column:date;not null"`
}

// TableName returns the table name for the PositionTransaction model
func (PositionTransaction) TableName() string {
	return "position_transactions"
}

// PositionYield is one dividend already distributed to a position.
type PositionYield struct {
	ID         string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	PositionID string    `json:"position_id" gorm:"column:position_id;type:varchar(255);not null;index"`
	YieldID    string    `json:"yield_id" gorm:"column:yield_id;type:varchar(255);not null;uniqueIndex"`
	Income     Money     `json:"income" gorm:"embedded;embeddedPrefix:income_"`
	Date       time.Time `json:"date" gorm:"column:date;not null"`
}

// TableName returns the table name for the PositionYield model
func (PositionYield) TableName() string {
	return "position_yields"
}

// Position is the running holding for one (portfolio, asset) pair:
// held quantity, cost basis and distributed yield, derived from the
// transaction stream. It exists only after a first buy has been applied.
//
// Version counts applied events. The coordinator compares it against the
// persisted transaction count to decide whether the stored snapshot is
// still a valid base for an incremental update.
type Position struct {
	ID          string `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	PortfolioID string `json:"portfolio_id" gorm:"column:portfolio_id;type:varchar(255);not null;uniqueIndex:idx_positions_key"`
	AssetID     string `json:"asset_id" gorm:"column:asset_id;type:varchar(255);not null;uniqueIndex:idx_positions_key"`

	Quantity      Quantity `json:"quantity" gorm:"embedded;embeddedPrefix:quantity_"`
	TotalInvested Money    `json:"total_invested" gorm:"embedded;embeddedPrefix:total_invested_"`
	CurrentPrice  Money    `json:"current_price" gorm:"embedded;embeddedPrefix:current_price_"`

	Version int64 `json:"version" gorm:"column:version;not null;default:0"`

	Transactions []PositionTransaction `json:"transactions" gorm:"foreignKey:PositionID"`
	Yields       []PositionYield       `json:"yields" gorm:"foreignKey:PositionID"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Position model
func (Position) TableName() string {
	return "positions"
}

// AveragePrice derives the weighted-average cost per held unit. It is
// never stored: totalInvested and quantity are the source of truth.
func (p *Position) AveragePrice() Money {
	if p.Quantity.IsZero() {
		return ZeroMoney(p.TotalInvested.Currency)
	}
	return Money{
		Amount:   p.TotalInvested.Amount.Div(p.Quantity.Value),
		Currency: p.TotalInvested.Currency,
	}
}

// HasApplied reports whether a transaction has already been folded into
// this position, either as a buy/sell record or as a yield.
func (p *Position) HasApplied(transactionID string) bool {
	for i := range p.Transactions {
		if p.Transactions[i].TransactionID == transactionID {
			return true
		}
	}
	for i := range p.Yields {
		if p.Yields[i].YieldID == transactionID {
			return true
		}
	}
	return false
}

// TotalYield sums the distributed income recorded on this position.
func (p *Position) TotalYield() Money {
	total := ZeroMoney(p.TotalInvested.Currency)
	for i := range p.Yields {
		total.Amount = total.Amount.Add(p.Yields[i].Income.Amount)
	}
	return total
}

// Clone returns a deep copy so the recalculation engine can produce a new
// state without mutating the stored aggregate in place.
func (p *Position) Clone() *Position {
	next := *p
	next.Transactions = make([]PositionTransaction, len(p.Transactions))
	copy(next.Transactions, p.Transactions)
	next.Yields = make([]PositionYield, len(p.Yields))
	copy(next.Yields, p.Yields)
	return &next
}

// PositionFilter represents filters for querying positions
type PositionFilter struct {
	PortfolioID string
	AssetID     string
	Limit       int
	Offset      int
}

// PositionSummary provides aggregated statistics for one portfolio.
type PositionSummary struct {
	PortfolioID    string          `json:"portfolio_id"`
	TotalPositions int             `json:"total_positions"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	TotalYield     decimal.Decimal `json:"total_yield"`
	Currency       string          `json:"currency"`
}
