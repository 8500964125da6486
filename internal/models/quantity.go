package models

import (
	"github.com/shopspring/decimal"

	apperrors "carteira/internal/errors"
)

// Quantity is an immutable, non-negative unit count.
type Quantity struct {
	Value decimal.Decimal `json:"value" gorm:"type:decimal(30,18);not null"`
}

// NewQuantity creates a Quantity, rejecting negative values.
func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, &apperrors.ErrValidation{Field: "quantity", Message: "must not be negative"}
	}
	return Quantity{Value: value}, nil
}

// ZeroQuantity returns an empty quantity.
func ZeroQuantity() Quantity {
	return Quantity{Value: decimal.Zero}
}

// Add returns q + p.
func (q Quantity) Add(p Quantity) Quantity {
	return Quantity{Value: q.Value.Add(p.Value)}
}

// Sub returns q - p, failing explicitly instead of flooring at zero.
func (q Quantity) Sub(p Quantity) (Quantity, error) {
	result := q.Value.Sub(p.Value)
	if result.IsNegative() {
		return Quantity{}, &apperrors.ErrInsufficientQuantity{
			Available: q.Value.String(),
			Requested: p.Value.String(),
		}
	}
	return Quantity{Value: result}, nil
}

func (q Quantity) Equal(p Quantity) bool       { return q.Value.Equal(p.Value) }
func (q Quantity) GreaterThan(p Quantity) bool { return q.Value.GreaterThan(p.Value) }
func (q Quantity) LessThan(p Quantity) bool    { return q.Value.LessThan(p.Value) }
func (q Quantity) IsZero() bool                { return q.Value.IsZero() }
func (q Quantity) IsPositive() bool            { return q.Value.IsPositive() }

func (q Quantity) String() string { return q.Value.String() }
