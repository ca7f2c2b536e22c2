package mapping

import (
	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment. Allocations
// are mapped separately; they live in their own table.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:           d.PaymentID,
		Direction:           string(d.Direction),
		Method:              d.Method,
		Amount:              d.Amount,
		PaymentDate:         d.PaymentDate,
		PartyName:           d.PartyName,
		Notes:               d.Notes,
		LinkedChequeID:      d.LinkedChequeID,
		LinkedTransactionID: d.LinkedTransactionID,
		IsEndorsement:       d.IsEndorsement,
		NoCashMovement:      d.NoCashMovement,
		EndorsementChequeID: d.EndorsementChequeID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:           m.PaymentID,
		Direction:           domain.PaymentDirection(m.Direction),
		Method:              m.Method,
		Amount:              m.Amount,
		PaymentDate:         m.PaymentDate,
		PartyName:           m.PartyName,
		Notes:               m.Notes,
		LinkedChequeID:      m.LinkedChequeID,
		LinkedTransactionID: m.LinkedTransactionID,
		IsEndorsement:       m.IsEndorsement,
		NoCashMovement:      m.NoCashMovement,
		EndorsementChequeID: m.EndorsementChequeID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAllocation converts a domain Allocation to a model PaymentAllocation.
func ToModelAllocation(d domain.Allocation) models.PaymentAllocation {
	return models.PaymentAllocation{
		AllocationID:  d.AllocationID,
		PaymentID:     d.PaymentID,
		TransactionID: d.TransactionID,
		Amount:        d.Amount,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAllocation converts a model PaymentAllocation to a domain Allocation.
func ToDomainAllocation(m models.PaymentAllocation) domain.Allocation {
	return domain.Allocation{
		AllocationID:  m.AllocationID,
		PaymentID:     m.PaymentID,
		TransactionID: m.TransactionID,
		Amount:        m.Amount,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAllocationSlice converts a slice of model allocations.
func ToDomainAllocationSlice(ms []models.PaymentAllocation) []domain.Allocation {
	out := make([]domain.Allocation, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAllocation(m)
	}
	return out
}
