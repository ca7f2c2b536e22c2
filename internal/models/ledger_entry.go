package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the ledger_entries table row.
type LedgerEntry struct {
	EntryID          string          `json:"entryID"`
	TransactionID    string          `json:"transactionID"`
	EntryType        string          `json:"entryType"`
	PartyName        string          `json:"partyName"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	PaymentStatus    string          `json:"paymentStatus"`
	DueDate          time.Time       `json:"dueDate"`
	AuditFields
}
