// Package types holds the shared value objects of the booking core:
// monetary amounts, service durations and half-open time ranges.
package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCurrencyMismatch = errors.New("currency_mismatch")
	ErrNegativeAmount   = errors.New("negative_amount")
	ErrInvalidCurrency  = errors.New("invalid_currency")
)

// Money is a non-negative amount in minor units (cents, yen, ...) paired
// with an ISO 4217 currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney validates and builds a Money value.
func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, ErrNegativeAmount
	}
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: code}, nil
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}
