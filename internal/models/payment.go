package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the payments table row.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	Direction   string          `json:"direction"`
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	PartyName   string          `json:"partyName"`
	Notes       string          `json:"notes"`

	LinkedChequeID      *string `json:"linkedChequeID,omitempty"`
	LinkedTransactionID *string `json:"linkedTransactionID,omitempty"`

	IsEndorsement       bool    `json:"isEndorsement"`
	NoCashMovement      bool    `json:"noCashMovement"`
	EndorsementChequeID *string `json:"endorsementChequeID,omitempty"`

	AuditFields
}

// PaymentAllocation is the payment_allocations table row.
type PaymentAllocation struct {
	AllocationID  string          `json:"allocationID"`
	PaymentID     string          `json:"paymentID"`
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	AuditFields
}
