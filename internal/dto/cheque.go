package dto

import (
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitChequeRequest creates a cheque or edits an existing one. When Status
// differs from the stored status, the edit routes through the lifecycle
// orchestrator (cash, bounce, revert) instead of a plain field update.
type SubmitChequeRequest struct {
	ChequeID     string          `json:"chequeID"` // empty on create
	ChequeNumber string          `json:"chequeNumber" binding:"required"`
	Direction    string          `json:"direction" binding:"required,oneof=INCOMING OUTGOING"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	PartyName    string          `json:"partyName" binding:"required"`
	BankName     string          `json:"bankName"`
	DueDate      time.Time       `json:"dueDate" binding:"required"`
	Status       string          `json:"status" binding:"omitempty,oneof=PENDING CASHED BOUNCED ENDORSED CANCELLED"`
	Notes        string          `json:"notes"`

	LinkedTransactionID *string    `json:"linkedTransactionID,omitempty"`
	PaymentDate         *time.Time `json:"paymentDate,omitempty"`

	// ImageData is the raw cheque image, stored to object storage before the
	// atomic batch runs.
	ImageData []byte `json:"imageData,omitempty"`
}

// CashChequeRequest carries the optional payment date for a cash event.
type CashChequeRequest struct {
	PaymentDate *time.Time `json:"paymentDate,omitempty"`
}

// AllocationInput is one caller-chosen allocation against a ledger entry.
type AllocationInput struct {
	TransactionID string          `json:"transactionID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// CashWithAllocationRequest settles several open transactions with one
// cheque. With Auto set the engine distributes FIFO over the party's open
// entries; otherwise the manual allocations are clamped and applied.
type CashWithAllocationRequest struct {
	Auto                bool              `json:"auto"`
	ClientAllocations   []AllocationInput `json:"clientAllocations,omitempty"`
	SupplierAllocations []AllocationInput `json:"supplierAllocations,omitempty"`
	PaymentDate         *time.Time        `json:"paymentDate,omitempty"`
}

// CashWithAllocationResponse reports the created payment and how the cheque
// amount was distributed.
type CashWithAllocationResponse struct {
	PaymentID   string          `json:"paymentID"`
	Allocated   decimal.Decimal `json:"allocated"`
	Unallocated decimal.Decimal `json:"unallocated"`
	Excess      decimal.Decimal `json:"excess"`
}

// EndorseChequeRequest re-issues an incoming cheque to a new holder.
type EndorseChequeRequest struct {
	EndorsedTo    string     `json:"endorsedTo" binding:"required"`
	TransactionID *string    `json:"transactionID,omitempty"` // optional supplier-side entry to settle
	EndorsedDate  *time.Time `json:"endorsedDate,omitempty"`
}

// ListChequesParams filters and paginates the cheque list.
type ListChequesParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=PENDING CASHED BOUNCED ENDORSED CANCELLED"`
	Direction string  `form:"direction" binding:"omitempty,oneof=INCOMING OUTGOING"`
	PartyName string  `form:"partyName"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ChequeResponse is the API shape of a cheque.
type ChequeResponse struct {
	ChequeID     string          `json:"chequeID"`
	ChequeNumber string          `json:"chequeNumber"`
	Direction    string          `json:"direction"`
	Kind         string          `json:"kind"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	PartyName    string          `json:"partyName"`
	BankName     string          `json:"bankName"`
	DueDate      time.Time       `json:"dueDate"`
	ClearedDate  *time.Time      `json:"clearedDate,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	ImagePath    *string         `json:"imagePath,omitempty"`

	LinkedTransactionID *string  `json:"linkedTransactionID,omitempty"`
	LinkedPaymentID     *string  `json:"linkedPaymentID,omitempty"`
	PaidTransactionIDs  []string `json:"paidTransactionIDs,omitempty"`

	EndorsedTo           *string    `json:"endorsedTo,omitempty"`
	EndorsedDate         *time.Time `json:"endorsedDate,omitempty"`
	EndorsedToOutgoingID *string    `json:"endorsedToOutgoingID,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToChequeResponse converts a domain Cheque to its API shape.
func ToChequeResponse(c *domain.Cheque) ChequeResponse {
	return ChequeResponse{
		ChequeID:             c.ChequeID,
		ChequeNumber:         c.ChequeNumber,
		Direction:            string(c.Direction),
		Kind:                 string(c.Kind),
		Status:               string(c.Status),
		Amount:               c.Amount,
		PartyName:            c.PartyName,
		BankName:             c.BankName,
		DueDate:              c.DueDate,
		ClearedDate:          c.ClearedDate,
		Notes:                c.Notes,
		ImagePath:            c.ImagePath,
		LinkedTransactionID:  c.LinkedTransactionID,
		LinkedPaymentID:      c.LinkedPaymentID,
		PaidTransactionIDs:   c.PaidTransactionIDs,
		EndorsedTo:           c.EndorsedTo,
		EndorsedDate:         c.EndorsedDate,
		EndorsedToOutgoingID: c.EndorsedToOutgoingID,
		CreatedAt:            c.CreatedAt,
		LastUpdatedAt:        c.LastUpdatedAt,
	}
}

// ListChequesResponse is one page of cheques plus the cursor for the next.
type ListChequesResponse struct {
	Cheques   []ChequeResponse `json:"cheques"`
	NextToken *string          `json:"nextToken,omitempty"`
}
