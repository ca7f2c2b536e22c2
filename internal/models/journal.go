package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries table row. Rows are append-only; the
// repository exposes no update or delete for them.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`
	LinkedPaymentID string          `json:"linkedPaymentID"`
	Amount          decimal.Decimal `json:"amount"`
	EntryDate       time.Time       `json:"entryDate"`
	Description     string          `json:"description"`
	ReversalOf      *string         `json:"reversalOf,omitempty"`
	AuditFields
}

// JournalLine is the journal_lines table row.
type JournalLine struct {
	LineID  string          `json:"lineID"`
	EntryID string          `json:"entryID"`
	Account string          `json:"account"`
	Side    string          `json:"side"`
	Amount  decimal.Decimal `json:"amount"`
}
