package dto

import (
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineResponse is one leg of a journal entry.
type JournalLineResponse struct {
	LineID  string          `json:"lineID"`
	Account string          `json:"account"`
	Side    string          `json:"side"`
	Amount  decimal.Decimal `json:"amount"`
}

// JournalEntryResponse is the API shape of a journal entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	LinkedPaymentID string                `json:"linkedPaymentID"`
	Amount          decimal.Decimal       `json:"amount"`
	EntryDate       time.Time             `json:"entryDate"`
	Description     string                `json:"description,omitempty"`
	ReversalOf      *string               `json:"reversalOf,omitempty"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
}

// ToJournalEntryResponse converts a domain JournalEntry to its API shape.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:  l.LineID,
			Account: string(l.Account),
			Side:    string(l.Side),
			Amount:  l.Amount,
		}
	}
	return JournalEntryResponse{
		EntryID:         e.EntryID,
		LinkedPaymentID: e.LinkedPaymentID,
		Amount:          e.Amount,
		EntryDate:       e.EntryDate,
		Description:     e.Description,
		ReversalOf:      e.ReversalOf,
		Lines:           lines,
	}
}

// ToJournalEntryResponses converts a slice of domain journal entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out
}
