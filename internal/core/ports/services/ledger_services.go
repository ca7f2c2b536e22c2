package services

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the read/preview surface over the AR/AP ledger entries
// the cheque engine settles against.
type LedgerSvcFacade interface {
	// CreateEntry records a new outstanding balance.
	CreateEntry(ctx context.Context, req dto.CreateLedgerEntryRequest, actor string) (*domain.LedgerEntry, error)

	// GetEntryByTransactionID retrieves a ledger entry by its business key.
	GetEntryByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error)

	// GetOpenEntriesByParty retrieves a party's open entries oldest-due-first.
	GetOpenEntriesByParty(ctx context.Context, partyName string, entryType domain.LedgerEntryType) ([]domain.LedgerEntry, error)

	// PreviewAllocation runs the FIFO engine against a party's open entries
	// without writing anything, for the allocation UI.
	PreviewAllocation(ctx context.Context, partyName string, entryType domain.LedgerEntryType, amount decimal.Decimal) ([]accounting.AllocationPlan, error)
}
