// Package core provides the ledger domain model: transactions, categories,
// money amounts, filtering and balance derivation.
//
// This file contains money parsing and sign normalization. Amounts are held
// as decimals so that repeated running-sum accumulation stays exact; binary
// floating point drifts after a few hundred cent-sized additions.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal currency amount. The zero value is 0.00.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal as Money.
func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

// MoneyFromString parses s into Money, accepting both dot (12.34) and comma
// (12,34) decimal separators and an optional leading sign.
//
// Examples:
//
//	MoneyFromString("12.34")  -> 12.34
//	MoneyFromString("12,34")  -> 12.34
//	MoneyFromString("-5")     -> -5.00
func MoneyFromString(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{d}, nil
}

// MoneyFromFloat converts a float amount, rounded to two decimal places.
// Upstream payloads carry amounts as JSON numbers; rounding at the ingestion
// boundary keeps the canonical representation at cent precision.
func MoneyFromFloat(f float64) Money {
	return Money{decimal.NewFromFloat(f).Round(2)}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{m.Decimal.Neg()}
}

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	return Money{m.Decimal.Abs()}
}

// Equal reports whether two amounts are numerically equal.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// String formats the amount with exactly two decimal places.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// NormalizeSign folds the (amount, kind) pair into one canonical signed
// amount. An amount that already carries the sign its kind implies is
// trusted as-is; otherwise the sign is derived from the kind: credits are
// positive, debits negative. Call sites apply this exactly once, at
// ingestion.
func NormalizeSign(amount Money, kind Kind) Money {
	if kind == Debit && amount.IsNegative() {
		return amount
	}
	if kind == Credit && amount.IsPositive() {
		return amount
	}
	if kind == Credit {
		return amount.Abs()
	}
	return amount.Abs().Neg()
}

// KindFromSign derives the kind implied by a signed amount, for payloads
// that carry no discriminator at all.
func KindFromSign(amount Money) Kind {
	if amount.IsNegative() {
		return Debit
	}
	return Credit
}
