package domain

import (
	"fmt"
	"time"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ChequeStatus is the lifecycle state of a cheque.
type ChequeStatus string

const (
	ChequePending   ChequeStatus = "PENDING"
	ChequeCashed    ChequeStatus = "CASHED"
	ChequeBounced   ChequeStatus = "BOUNCED"
	ChequeEndorsed  ChequeStatus = "ENDORSED"
	ChequeCancelled ChequeStatus = "CANCELLED"
)

// ChequeDirection distinguishes cheques received from clients from cheques
// issued to suppliers.
type ChequeDirection string

const (
	Incoming ChequeDirection = "INCOMING"
	Outgoing ChequeDirection = "OUTGOING"
)

// ChequeKind marks synthetic cheques created by endorsing an incoming cheque
// to a third party.
type ChequeKind string

const (
	KindNormal   ChequeKind = "NORMAL"
	KindEndorsed ChequeKind = "ENDORSED"
)

// Cheque is the central document of the cheque lifecycle. Status and the
// linking fields are owned exclusively by the orchestrator; descriptive
// fields (bank, dates, notes) may be edited freely while the cheque is
// PENDING.
type Cheque struct {
	ChequeID     string          `json:"chequeID"`
	ChequeNumber string          `json:"chequeNumber"` // business-facing, not globally unique
	Direction    ChequeDirection `json:"direction"`
	Kind         ChequeKind      `json:"kind"`
	Status       ChequeStatus    `json:"status"`
	Amount       decimal.Decimal `json:"amount"` // fixed at creation; frozen while CASHED
	PartyName    string          `json:"partyName"`
	BankName     string          `json:"bankName"`
	DueDate      time.Time       `json:"dueDate"`
	ClearedDate  *time.Time      `json:"clearedDate,omitempty"`
	Notes        string          `json:"notes"`
	ImagePath    *string         `json:"imagePath,omitempty"`

	// LinkedTransactionID is the legacy single-link to one ledger entry,
	// settled in full when the cheque is cashed. Frozen while CASHED.
	LinkedTransactionID *string `json:"linkedTransactionID,omitempty"`
	// LinkedPaymentID is set when a payment was created for this cheque's
	// cashing. Its presence is the idempotency guard against double-cashing.
	LinkedPaymentID *string `json:"linkedPaymentID,omitempty"`
	// PaidTransactionIDs holds the ledger-entry business ids actually settled
	// by a multi-allocation cash event.
	PaidTransactionIDs []string `json:"paidTransactionIDs,omitempty"`

	// Endorsement linkage, present only while Status is ENDORSED.
	EndorsedTo           *string    `json:"endorsedTo,omitempty"`
	EndorsedDate         *time.Time `json:"endorsedDate,omitempty"`
	EndorsedToOutgoingID *string    `json:"endorsedToOutgoingID,omitempty"`

	AuditFields
}

// chequeTransitions is the full transition table. Any (from, to) pair absent
// here is illegal, including from == to.
var chequeTransitions = map[ChequeStatus]map[ChequeStatus]bool{
	ChequePending: {
		ChequeCashed:    true,
		ChequeBounced:   true,
		ChequeEndorsed:  true, // incoming cheques only, checked separately
		ChequeCancelled: true,
	},
	ChequeCashed: {
		ChequePending: true, // full reversal
		ChequeBounced: true, // reversal, then mark bounced
	},
	ChequeBounced: {
		ChequePending: true,
		ChequeCashed:  true,
	},
	ChequeEndorsed: {
		ChequePending: true, // cancel-endorsement
	},
	ChequeCancelled: {},
}

// ValidateChequeTransition reports whether moving from current to requested is
// permitted. A request for the current status is rejected: an explicit no-op
// is not a transition.
func ValidateChequeTransition(current, requested ChequeStatus, direction ChequeDirection) error {
	if current == requested {
		return fmt.Errorf("%w: cheque is already %s", apperrors.ErrInvalidTransition, current)
	}
	if requested == ChequeEndorsed && direction != Incoming {
		return fmt.Errorf("%w: only incoming cheques can be endorsed", apperrors.ErrInvalidTransition)
	}
	if !chequeTransitions[current][requested] {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, current, requested)
	}
	return nil
}

// ValidateChequeDeletion restricts hard deletion to PENDING cheques. A cheque
// with any financial side effect must first be reverted to PENDING, which
// reverses those effects.
func ValidateChequeDeletion(status ChequeStatus) error {
	if status != ChequePending {
		return fmt.Errorf("%w: cannot delete a %s cheque, revert it to PENDING first", apperrors.ErrInvalidTransition, status)
	}
	return nil
}
