package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByPaymentID retrieves all journal entries linked to a
	// payment, originals and reversals alike, with their lines.
	FindEntriesByPaymentID(ctx context.Context, paymentID string) ([]domain.JournalEntry, error)
}

// JournalWriter appends journal entries. The journal is append-only: there is
// deliberately no update or delete; corrections are posted as offsetting
// entries referencing the original.
type JournalWriter interface {
	// SaveEntryInTx appends an entry and its lines inside an existing
	// transaction, so a payment can never be committed without its entry.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// SaveEntry appends an entry in its own short transaction. Used for the
	// best-effort reversal postings that run after the main batch committed.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
