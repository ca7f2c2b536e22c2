package mapping

import (
	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/models"
)

// ToModelCheque converts a domain Cheque to a model Cheque.
func ToModelCheque(d domain.Cheque) models.Cheque {
	return models.Cheque{
		ChequeID:             d.ChequeID,
		ChequeNumber:         d.ChequeNumber,
		Direction:            string(d.Direction),
		Kind:                 string(d.Kind),
		Status:               models.ChequeStatus(d.Status),
		Amount:               d.Amount,
		PartyName:            d.PartyName,
		BankName:             d.BankName,
		DueDate:              d.DueDate,
		ClearedDate:          d.ClearedDate,
		Notes:                d.Notes,
		ImagePath:            d.ImagePath,
		LinkedTransactionID:  d.LinkedTransactionID,
		LinkedPaymentID:      d.LinkedPaymentID,
		PaidTransactionIDs:   d.PaidTransactionIDs,
		EndorsedTo:           d.EndorsedTo,
		EndorsedDate:         d.EndorsedDate,
		EndorsedToOutgoingID: d.EndorsedToOutgoingID,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCheque converts a model Cheque to a domain Cheque. The stored
// status is normalized here so legacy aliases never leave the read boundary.
func ToDomainCheque(m models.Cheque) domain.Cheque {
	return domain.Cheque{
		ChequeID:             m.ChequeID,
		ChequeNumber:         m.ChequeNumber,
		Direction:            domain.ChequeDirection(m.Direction),
		Kind:                 domain.ChequeKind(m.Kind),
		Status:               domain.ChequeStatus(models.NormalizeChequeStatus(string(m.Status))),
		Amount:               m.Amount,
		PartyName:            m.PartyName,
		BankName:             m.BankName,
		DueDate:              m.DueDate,
		ClearedDate:          m.ClearedDate,
		Notes:                m.Notes,
		ImagePath:            m.ImagePath,
		LinkedTransactionID:  m.LinkedTransactionID,
		LinkedPaymentID:      m.LinkedPaymentID,
		PaidTransactionIDs:   m.PaidTransactionIDs,
		EndorsedTo:           m.EndorsedTo,
		EndorsedDate:         m.EndorsedDate,
		EndorsedToOutgoingID: m.EndorsedToOutgoingID,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
