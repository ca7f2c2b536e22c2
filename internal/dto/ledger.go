package dto

import (
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest records a new outstanding AR/AP balance.
type CreateLedgerEntryRequest struct {
	TransactionID string          `json:"transactionID" binding:"required"`
	EntryType     string          `json:"entryType" binding:"required,oneof=RECEIVABLE PAYABLE"`
	PartyName     string          `json:"partyName" binding:"required"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DueDate       time.Time       `json:"dueDate" binding:"required"`
}

// LedgerEntryResponse is the API shape of a ledger entry.
type LedgerEntryResponse struct {
	EntryID          string          `json:"entryID"`
	TransactionID    string          `json:"transactionID"`
	EntryType        string          `json:"entryType"`
	PartyName        string          `json:"partyName"`
	Description      string          `json:"description,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	PaymentStatus    string          `json:"paymentStatus"`
	DueDate          time.Time       `json:"dueDate"`
}

// ToLedgerEntryResponse converts a domain LedgerEntry to its API shape.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:          e.EntryID,
		TransactionID:    e.TransactionID,
		EntryType:        string(e.EntryType),
		PartyName:        e.PartyName,
		Description:      e.Description,
		Amount:           e.Amount,
		TotalPaid:        e.TotalPaid,
		RemainingBalance: e.RemainingBalance,
		PaymentStatus:    string(e.PaymentStatus),
		DueDate:          e.DueDate,
	}
}

// ToLedgerEntryResponses converts a slice of domain ledger entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToLedgerEntryResponse(&entries[i])
	}
	return out
}

// AllocationPlanResponse is one line of a FIFO allocation preview.
type AllocationPlanResponse struct {
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToAllocationPlanResponses converts engine plans to their API shape.
func ToAllocationPlanResponses(plans []accounting.AllocationPlan) []AllocationPlanResponse {
	out := make([]AllocationPlanResponse, len(plans))
	for i, p := range plans {
		out[i] = AllocationPlanResponse{TransactionID: p.TransactionID, Amount: p.Amount}
	}
	return out
}
