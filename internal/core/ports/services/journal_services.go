package services

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalSvcFacade is the posting engine contract. Entries are immutable once
// posted; corrections happen by posting offsetting entries.
type JournalSvcFacade interface {
	// PostForPaymentInTx derives the debit/credit legs for a payment and
	// appends the entry inside the caller's transaction, so the payment and
	// its journal entry commit together.
	PostForPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment, actor string) (*domain.JournalEntry, error)

	// ReverseEntriesForPayment posts offsetting entries for every un-reversed
	// entry linked to a payment. It runs after the money-affecting batch
	// committed and is best-effort: the caller logs failures instead of
	// rolling back.
	ReverseEntriesForPayment(ctx context.Context, paymentID string, reason string, actor string) error

	// GetEntryByID retrieves one journal entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetEntriesByPaymentID retrieves all entries linked to a payment.
	GetEntriesByPaymentID(ctx context.Context, paymentID string) ([]domain.JournalEntry, error)
}
