// Package money provides exact fixed-point arithmetic helpers for amounts.
// All balance math in the application goes through shopspring/decimal so
// repeated balance updates never accumulate floating-point drift.
package money

import (
	"fmt"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits stored for money amounts.
const Precision int32 = 2

// Parse converts user input into a money amount, rejecting malformed or
// non-positive values.
func Parse(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not numeric", apperrors.ErrValidation, raw)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amount)
	}
	return Round(amount), nil
}

// Round normalizes an amount to the stored money precision.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Precision)
}

// ClampToZero floors a computed amount at zero.
func ClampToZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
