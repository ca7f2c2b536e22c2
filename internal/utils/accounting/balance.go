package accounting

import (
	"fmt"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyBalanceDelta applies a signed payment delta to a ledger entry and
// recomputes its derived fields. Positive deltas settle more of the balance
// (cashing, endorsement receipt); negative deltas reverse an earlier
// settlement.
//
// A negative computed total-paid means a duplicate reversal or corrupted
// prior state; it returns apperrors.ErrDataIntegrity with the entry unchanged
// rather than clamping silently. This function is pure; it is used in both
// services and repositories to keep balance logic in one place.
func ApplyBalanceDelta(entry domain.LedgerEntry, signedAmount decimal.Decimal) (domain.LedgerEntry, error) {
	newTotalPaid := entry.TotalPaid.Add(signedAmount)
	if newTotalPaid.IsNegative() {
		return entry, fmt.Errorf("%w: reversal of %s would drive total paid on transaction %s to %s",
			apperrors.ErrDataIntegrity, signedAmount.Abs(), entry.TransactionID, newTotalPaid)
	}

	entry.TotalPaid = newTotalPaid
	entry.RemainingBalance = entry.Amount.Sub(newTotalPaid)
	entry.PaymentStatus = DerivePaymentStatus(entry.Amount, newTotalPaid)
	return entry, nil
}

// DerivePaymentStatus computes the payment status for a (amount, totalPaid)
// pair: PAID when nothing remains, PARTIAL when something was paid, UNPAID
// otherwise.
func DerivePaymentStatus(amount, totalPaid decimal.Decimal) domain.PaymentStatus {
	switch {
	case amount.Sub(totalPaid).LessThanOrEqual(decimal.Zero):
		return domain.Paid
	case totalPaid.GreaterThan(decimal.Zero):
		return domain.Partial
	default:
		return domain.Unpaid
	}
}
