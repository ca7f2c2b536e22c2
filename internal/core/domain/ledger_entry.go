package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is derived from a ledger entry's Amount and TotalPaid.
type PaymentStatus string

const (
	Unpaid  PaymentStatus = "UNPAID"
	Partial PaymentStatus = "PARTIAL"
	Paid    PaymentStatus = "PAID"
)

// LedgerEntryType distinguishes amounts a client owes us from amounts we owe
// a supplier.
type LedgerEntryType string

const (
	Receivable LedgerEntryType = "RECEIVABLE"
	Payable    LedgerEntryType = "PAYABLE"
)

// LedgerEntry is one outstanding AR/AP balance. Amount is immutable;
// TotalPaid, RemainingBalance and PaymentStatus move only through the balance
// updater inside an atomic batch.
type LedgerEntry struct {
	EntryID string `json:"entryID"`
	// TransactionID is the business key the rest of the system links against.
	TransactionID string          `json:"transactionID"`
	EntryType     LedgerEntryType `json:"entryType"`
	PartyName     string          `json:"partyName"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	// RemainingBalance is Amount - TotalPaid, stored for query convenience.
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	DueDate          time.Time       `json:"dueDate"`
	AuditFields
}
