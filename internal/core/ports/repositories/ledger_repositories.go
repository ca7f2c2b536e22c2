package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerReader defines read operations against the AR/AP ledger entries.
type LedgerReader interface {
	// FindEntryByTransactionID retrieves a ledger entry by its business key.
	FindEntryByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error)

	// FindEntryByTransactionIDForUpdate retrieves and locks a ledger entry
	// inside the given transaction so its balance can be updated safely.
	FindEntryByTransactionIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.LedgerEntry, error)

	// FindOpenEntriesByParty retrieves a party's unpaid and partially paid
	// entries of one type, ordered oldest due date first for FIFO allocation.
	FindOpenEntriesByParty(ctx context.Context, partyName string, entryType domain.LedgerEntryType) ([]domain.LedgerEntry, error)

	// FindOpenEntriesByPartyForUpdate is the in-transaction, row-locked
	// variant used when allocations are about to be applied.
	FindOpenEntriesByPartyForUpdate(ctx context.Context, tx pgx.Tx, partyName string, entryType domain.LedgerEntryType) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines the write operations the cheque engine performs on
// ledger entries. Entry creation belongs to the general ledger CRUD surface;
// the engine itself only moves balances.
type LedgerWriter interface {
	// SaveEntry inserts a new ledger entry.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// UpdateEntryBalancesInTx persists recomputed TotalPaid,
	// RemainingBalance and PaymentStatus as part of an existing transaction.
	UpdateEntryBalancesInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
