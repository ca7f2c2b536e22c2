package dto

import (
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationResponse is the API shape of one payment allocation.
type AllocationResponse struct {
	AllocationID  string          `json:"allocationID"`
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentResponse is the API shape of a payment.
type PaymentResponse struct {
	PaymentID   string          `json:"paymentID"`
	Direction   string          `json:"direction"`
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	PartyName   string          `json:"partyName"`
	Notes       string          `json:"notes,omitempty"`

	LinkedChequeID      *string `json:"linkedChequeID,omitempty"`
	LinkedTransactionID *string `json:"linkedTransactionID,omitempty"`

	IsEndorsement       bool    `json:"isEndorsement"`
	NoCashMovement      bool    `json:"noCashMovement"`
	EndorsementChequeID *string `json:"endorsementChequeID,omitempty"`

	Allocations []AllocationResponse `json:"allocations,omitempty"`
}

// ToPaymentResponse converts a domain Payment to its API shape.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocations[i] = AllocationResponse{
			AllocationID:  a.AllocationID,
			TransactionID: a.TransactionID,
			Amount:        a.Amount,
		}
	}
	return PaymentResponse{
		PaymentID:           p.PaymentID,
		Direction:           string(p.Direction),
		Method:              p.Method,
		Amount:              p.Amount,
		PaymentDate:         p.PaymentDate,
		PartyName:           p.PartyName,
		Notes:               p.Notes,
		LinkedChequeID:      p.LinkedChequeID,
		LinkedTransactionID: p.LinkedTransactionID,
		IsEndorsement:       p.IsEndorsement,
		NoCashMovement:      p.NoCashMovement,
		EndorsementChequeID: p.EndorsementChequeID,
		Allocations:         allocations,
	}
}
