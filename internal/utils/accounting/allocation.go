package accounting

import (
	"fmt"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// AllocationPlan is one planned application of a cheque's value against a
// ledger entry, keyed by the entry's business transaction id.
type AllocationPlan struct {
	TransactionID string
	Amount        decimal.Decimal
}

// AllocationSummary reports how a set of plans relates to the cheque amount.
// Under- and over-allocation are both legal states: the remainder stays
// unallocated, the excess is an advance/credit, neither is an error.
type AllocationSummary struct {
	Allocated   decimal.Decimal
	Unallocated decimal.Decimal
	Excess      decimal.Decimal
}

// DistributeFIFO walks the party's open entries oldest-due-first, allocating
// min(remaining payment, entry remaining balance) to each until the payment
// is exhausted. Entries past that point receive zero. The input order is
// preserved in the output; callers must pass entries sorted oldest first.
func DistributeFIFO(amount decimal.Decimal, entries []domain.LedgerEntry) []AllocationPlan {
	plans := make([]AllocationPlan, len(entries))
	remaining := amount
	for i, entry := range entries {
		allocated := decimal.Zero
		if remaining.GreaterThan(decimal.Zero) {
			allocated = money.Min(remaining, entry.RemainingBalance)
			remaining = remaining.Sub(allocated)
		}
		plans[i] = AllocationPlan{TransactionID: entry.TransactionID, Amount: allocated}
	}
	return plans
}

// ClampManualAllocations validates caller-chosen allocation amounts against
// their entries. Each amount is clamped to [0, entry remaining balance]; the
// sum is deliberately not forced to equal the cheque amount. An amount
// referencing an unknown transaction id is a validation error.
func ClampManualAllocations(requested []AllocationPlan, entries []domain.LedgerEntry) ([]AllocationPlan, error) {
	byTransaction := make(map[string]domain.LedgerEntry, len(entries))
	for _, entry := range entries {
		byTransaction[entry.TransactionID] = entry
	}

	clamped := make([]AllocationPlan, len(requested))
	for i, plan := range requested {
		entry, ok := byTransaction[plan.TransactionID]
		if !ok {
			return nil, fmt.Errorf("%w: allocation references unknown transaction %s", apperrors.ErrValidation, plan.TransactionID)
		}
		amount := money.ClampToZero(plan.Amount)
		amount = money.Min(amount, entry.RemainingBalance)
		clamped[i] = AllocationPlan{TransactionID: plan.TransactionID, Amount: amount}
	}
	return clamped, nil
}

// SummarizeAllocations computes the allocated total and the over/short sides
// against the cheque amount.
func SummarizeAllocations(chequeAmount decimal.Decimal, plans []AllocationPlan) AllocationSummary {
	allocated := decimal.Zero
	for _, plan := range plans {
		allocated = allocated.Add(plan.Amount)
	}
	return AllocationSummary{
		Allocated:   allocated,
		Unallocated: money.ClampToZero(chequeAmount.Sub(allocated)),
		Excess:      money.ClampToZero(allocated.Sub(chequeAmount)),
	}
}
