package mapping

import (
	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		LinkedPaymentID: d.LinkedPaymentID,
		Amount:          d.Amount,
		EntryDate:       d.EntryDate,
		Description:     d.Description,
		ReversalOf:      d.ReversalOf,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		LinkedPaymentID: m.LinkedPaymentID,
		Amount:          m.Amount,
		EntryDate:       m.EntryDate,
		Description:     m.Description,
		ReversalOf:      m.ReversalOf,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:  d.LineID,
		EntryID: d.EntryID,
		Account: string(d.Account),
		Side:    string(d.Side),
		Amount:  d.Amount,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:  m.LineID,
		EntryID: m.EntryID,
		Account: domain.LedgerAccount(m.Account),
		Side:    domain.EntrySide(m.Side),
		Amount:  m.Amount,
	}
}
