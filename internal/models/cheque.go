package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ChequeStatus is the canonical stored status value.
type ChequeStatus string

const (
	ChequePending   ChequeStatus = "PENDING"
	ChequeCashed    ChequeStatus = "CASHED"
	ChequeBounced   ChequeStatus = "BOUNCED"
	ChequeEndorsed  ChequeStatus = "ENDORSED"
	ChequeCancelled ChequeStatus = "CANCELLED"
)

// legacyStatusAliases maps status spellings found in imported legacy rows to
// the canonical enum. Aliases are normalized once at the repository read
// boundary; nothing above the repository ever sees them.
var legacyStatusAliases = map[string]ChequeStatus{
	"pending":   ChequePending,
	"open":      ChequePending,
	"cashed":    ChequeCashed,
	"cleared":   ChequeCashed,
	"bounced":   ChequeBounced,
	"returned":  ChequeBounced,
	"endorsed":  ChequeEndorsed,
	"cancelled": ChequeCancelled,
	"canceled":  ChequeCancelled,
	"void":      ChequeCancelled,
}

// NormalizeChequeStatus maps a raw stored status string to the canonical
// enum. Canonical values pass through; known legacy aliases are converted;
// anything else is returned as-is for the caller to reject.
func NormalizeChequeStatus(raw string) ChequeStatus {
	switch ChequeStatus(raw) {
	case ChequePending, ChequeCashed, ChequeBounced, ChequeEndorsed, ChequeCancelled:
		return ChequeStatus(raw)
	}
	if canonical, ok := legacyStatusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return canonical
	}
	return ChequeStatus(raw)
}

// Cheque is the cheques table row.
type Cheque struct {
	ChequeID     string          `json:"chequeID"`
	ChequeNumber string          `json:"chequeNumber"`
	Direction    string          `json:"direction"`
	Kind         string          `json:"kind"`
	Status       ChequeStatus    `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	PartyName    string          `json:"partyName"`
	BankName     string          `json:"bankName"`
	DueDate      time.Time       `json:"dueDate"`
	ClearedDate  *time.Time      `json:"clearedDate,omitempty"`
	Notes        string          `json:"notes"`
	ImagePath    *string         `json:"imagePath,omitempty"`

	LinkedTransactionID *string  `json:"linkedTransactionID,omitempty"`
	LinkedPaymentID     *string  `json:"linkedPaymentID,omitempty"`
	PaidTransactionIDs  []string `json:"paidTransactionIDs,omitempty"`

	EndorsedTo           *string    `json:"endorsedTo,omitempty"`
	EndorsedDate         *time.Time `json:"endorsedDate,omitempty"`
	EndorsedToOutgoingID *string    `json:"endorsedToOutgoingID,omitempty"`

	AuditFields
}
