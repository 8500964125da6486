package models

import (
	"time"

	apperrors "carteira/internal/errors"
)

// Asset is the master-data record the coordinator resolves before
// applying a transaction. Pricing and market data live elsewhere.
type Asset struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	Symbol    string    `json:"symbol" gorm:"column:symbol;type:varchar(50);not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}

// Validate validates the asset data
func (a *Asset) Validate() error {
	if a.Symbol == "" {
		return &apperrors.ErrValidation{Field: "symbol", Message: "is required"}
	}
	if a.Name == "" {
		return &apperrors.ErrValidation{Field: "name", Message: "is required"}
	}
	return nil
}
