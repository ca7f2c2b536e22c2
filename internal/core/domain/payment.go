package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDirection distinguishes money received from money paid out.
type PaymentDirection string

const (
	Receipt      PaymentDirection = "RECEIPT"
	Disbursement PaymentDirection = "DISBURSEMENT"
)

// PaymentMethodCheque is the payment method recorded for every payment this
// engine creates; it participates in the legacy fallback match (method +
// linked transaction + amount) used when a direct cheque link is missing.
const PaymentMethodCheque = "CHEQUE"

// Payment is one cash-equivalent event tied to a cheque. Payments flagged
// NoCashMovement are bookkeeping-only entries created by endorsements and
// must never be treated as real cash flow.
type Payment struct {
	PaymentID   string           `json:"paymentID"`
	Direction   PaymentDirection `json:"direction"`
	Method      string           `json:"method"`
	Amount      decimal.Decimal  `json:"amount"`
	PaymentDate time.Time        `json:"paymentDate"`
	PartyName   string           `json:"partyName"`
	Notes       string           `json:"notes"`

	LinkedChequeID      *string `json:"linkedChequeID,omitempty"`
	LinkedTransactionID *string `json:"linkedTransactionID,omitempty"`

	IsEndorsement  bool `json:"isEndorsement"`
	NoCashMovement bool `json:"noCashMovement"`
	// EndorsementChequeID correlates the two bookkeeping payments created by
	// one endorsement so cancel-endorsement can find both.
	EndorsementChequeID *string `json:"endorsementChequeID,omitempty"`

	Allocations []Allocation `json:"allocations,omitempty"`
	AuditFields
}

// Allocation is the portion of a payment applied against one ledger entry.
type Allocation struct {
	AllocationID string `json:"allocationID"`
	PaymentID    string `json:"paymentID"`
	// TransactionID is the settled ledger entry's business key.
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	AuditFields
}
