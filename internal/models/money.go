package models

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "carteira/internal/errors"
)

// DefaultCurrency is assumed when a transaction arrives without an explicit currency.
const DefaultCurrency = "BRL"

// Money is an immutable monetary amount in a single currency.
// All arithmetic between two Money values requires identical currencies;
// operations return new values and never mutate the receiver.
type Money struct {
	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(30,18);not null"`
	Currency string          `json:"currency" gorm:"type:varchar(3);not null"`
}

// NewMoney creates a Money value. An empty currency defaults to BRL;
// anything other than a 3-letter code is rejected.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	currency = strings.ToUpper(currency)
	if len(currency) != 3 {
		return Money{}, &apperrors.ErrValidation{Field: "currency", Message: "must be a 3-letter code"}
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return Money{}, &apperrors.ErrValidation{Field: "currency", Message: "must be a 3-letter code"}
		}
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// ZeroMoney returns a zero amount in the given currency (BRL when empty).
func ZeroMoney(currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: decimal.Zero, Currency: strings.ToUpper(currency)}
}

func (m Money) checkCurrency(n Money) error {
	if m.Currency != n.Currency {
		return &apperrors.ErrCurrencyMismatch{Left: m.Currency, Right: n.Currency}
	}
	return nil
}

// Add returns m + n. Both values must share a currency.
func (m Money) Add(n Money) (Money, error) {
	if err := m.checkCurrency(n); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(n.Amount), Currency: m.Currency}, nil
}

// Sub returns m - n. Both values must share a currency.
func (m Money) Sub(n Money) (Money, error) {
	if err := m.checkCurrency(n); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(n.Amount), Currency: m.Currency}, nil
}

// Mul returns m scaled by factor. Negative factors are rejected; zero is
// legal so that a full sell can reduce a cost basis to exactly zero.
func (m Money) Mul(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, apperrors.NotAllowed("factor must not be negative")
	}
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}, nil
}

// Div returns m divided by divisor. The divisor must be strictly positive.
func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if !divisor.IsPositive() {
		return Money{}, apperrors.NotAllowed("divisor must be positive")
	}
	return Money{Amount: m.Amount.Div(divisor), Currency: m.Currency}, nil
}

// Equal reports whether both amount and currency match.
func (m Money) Equal(n Money) bool {
	return m.Currency == n.Currency && m.Amount.Equal(n.Amount)
}

// GreaterThan reports m > n. Both values must share a currency.
func (m Money) GreaterThan(n Money) (bool, error) {
	if err := m.checkCurrency(n); err != nil {
		return false, err
	}
	return m.Amount.GreaterThan(n.Amount), nil
}

// LessThan reports m < n. Both values must share a currency.
func (m Money) LessThan(n Money) (bool, error) {
	if err := m.checkCurrency(n); err != nil {
		return false, err
	}
	return m.Amount.LessThan(n.Amount), nil
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency
}
