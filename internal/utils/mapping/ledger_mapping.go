package mapping

import (
	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:          d.EntryID,
		TransactionID:    d.TransactionID,
		EntryType:        string(d.EntryType),
		PartyName:        d.PartyName,
		Description:      d.Description,
		Amount:           d.Amount,
		TotalPaid:        d.TotalPaid,
		RemainingBalance: d.RemainingBalance,
		PaymentStatus:    string(d.PaymentStatus),
		DueDate:          d.DueDate,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:          m.EntryID,
		TransactionID:    m.TransactionID,
		EntryType:        domain.LedgerEntryType(m.EntryType),
		PartyName:        m.PartyName,
		Description:      m.Description,
		Amount:           m.Amount,
		TotalPaid:        m.TotalPaid,
		RemainingBalance: m.RemainingBalance,
		PaymentStatus:    domain.PaymentStatus(m.PaymentStatus),
		DueDate:          m.DueDate,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model ledger entries.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLedgerEntry(m)
	}
	return out
}
