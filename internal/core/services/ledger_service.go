package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/utils/accounting"
	"github.com/finbook/finbook_backend/internal/utils/money"
)

type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateEntry records a new outstanding AR/AP balance with nothing paid yet.
func (s *ledgerService) CreateEntry(ctx context.Context, req dto.CreateLedgerEntryRequest, actor string) (*domain.LedgerEntry, error) {
	amount, err := money.Parse(req.Amount.String())
	if err != nil {
		return nil, err
	}

	if existing, err := s.ledgerRepo.FindEntryByTransactionID(ctx, req.TransactionID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: ledger entry for transaction %s", apperrors.ErrDuplicate, req.TransactionID)
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		TransactionID:    req.TransactionID,
		EntryType:        domain.LedgerEntryType(req.EntryType),
		PartyName:        req.PartyName,
		Description:      req.Description,
		Amount:           amount,
		TotalPaid:        decimal.Zero,
		RemainingBalance: amount,
		PaymentStatus:    domain.Unpaid,
		DueDate:          req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save ledger entry: %w", err)
	}
	return &entry, nil
}

func (s *ledgerService) GetEntryByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entry for transaction %s: %w", transactionID, err)
	}
	return entry, nil
}

func (s *ledgerService) GetOpenEntriesByParty(ctx context.Context, partyName string, entryType domain.LedgerEntryType) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.FindOpenEntriesByParty(ctx, partyName, entryType)
	if err != nil {
		return nil, fmt.Errorf("failed to find open ledger entries for %s: %w", partyName, err)
	}
	return entries, nil
}

// PreviewAllocation runs the FIFO engine against the party's current open
// entries without acquiring locks or writing anything.
func (s *ledgerService) PreviewAllocation(ctx context.Context, partyName string, entryType domain.LedgerEntryType, amount decimal.Decimal) ([]accounting.AllocationPlan, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: allocation amount must be positive", apperrors.ErrValidation)
	}
	entries, err := s.ledgerRepo.FindOpenEntriesByParty(ctx, partyName, entryType)
	if err != nil {
		return nil, fmt.Errorf("failed to find open ledger entries for %s: %w", partyName, err)
	}
	return accounting.DistributeFIFO(amount, entries), nil
}
