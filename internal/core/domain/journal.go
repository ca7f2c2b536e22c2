package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerAccount identifies the fixed accounts the journal posts against.
type LedgerAccount string

const (
	AccountCash       LedgerAccount = "CASH"
	AccountReceivable LedgerAccount = "ACCOUNTS_RECEIVABLE"
	AccountPayable    LedgerAccount = "ACCOUNTS_PAYABLE"
	// AccountEndorsementClearing carries the non-cash legs of endorsement
	// bookkeeping payments so each of them still posts a balanced entry.
	AccountEndorsementClearing LedgerAccount = "ENDORSEMENT_CLEARING"
)

// EntrySide indicates whether a journal line is a Debit or a Credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// JournalEntry is an immutable double-entry record for one payment or
// disbursement event. Entries are append-only: reversal posts a new entry
// with the legs swapped and ReversalOf set, never edits the original.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`
	LinkedPaymentID string          `json:"linkedPaymentID"`
	Amount          decimal.Decimal `json:"amount"`
	EntryDate       time.Time       `json:"entryDate"`
	Description     string          `json:"description"`
	ReversalOf      *string         `json:"reversalOf,omitempty"`
	Lines           []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is one leg of a journal entry.
type JournalLine struct {
	LineID  string          `json:"lineID"`
	EntryID string          `json:"entryID"`
	Account LedgerAccount   `json:"account"`
	Side    EntrySide       `json:"side"`
	Amount  decimal.Decimal `json:"amount"`
}
