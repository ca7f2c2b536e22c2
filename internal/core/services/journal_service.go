package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/middleware"
)

// ErrEntryUnbalanced is returned when an entry's debit legs do not equal its
// credit legs. The posting engine derives both legs itself, so hitting this
// means a bug rather than bad input.
var ErrEntryUnbalanced = errors.New("journal entry legs do not balance")

// journalService is the posting engine: it derives debit/credit legs for
// payment events and appends them to the append-only journal.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{journalRepo: journalRepo}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// legsForPayment derives the two legs of a payment's journal entry.
//
// Receipt: debit Cash / credit Accounts-Receivable.
// Disbursement: debit Accounts-Payable / credit Cash.
//
// Bookkeeping-only endorsement payments move AR/AP but never Cash, so their
// cash leg is replaced by the endorsement clearing account; the two clearing
// legs of one endorsement net to zero.
func legsForPayment(payment domain.Payment) (debit, credit domain.LedgerAccount, err error) {
	switch payment.Direction {
	case domain.Receipt:
		if payment.NoCashMovement {
			return domain.AccountEndorsementClearing, domain.AccountReceivable, nil
		}
		return domain.AccountCash, domain.AccountReceivable, nil
	case domain.Disbursement:
		if payment.NoCashMovement {
			return domain.AccountPayable, domain.AccountEndorsementClearing, nil
		}
		return domain.AccountPayable, domain.AccountCash, nil
	default:
		return "", "", fmt.Errorf("%w: unknown payment direction %q", apperrors.ErrValidation, payment.Direction)
	}
}

// validateEntryBalance checks that an entry's debit legs equal its credit legs.
func validateEntryBalance(lines []domain.JournalLine) error {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: line amount must be positive", apperrors.ErrValidation)
		}
		if line.Side == domain.Debit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
	}
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits %s, credits %s", ErrEntryUnbalanced, debits, credits)
	}
	return nil
}

// PostForPaymentInTx appends the journal entry for a payment inside the
// caller's transaction. The entry commits or fails together with the payment
// write, so a payment can never exist without its journal entry.
func (s *journalService) PostForPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment, actor string) (*domain.JournalEntry, error) {
	debitAccount, creditAccount, err := legsForPayment(payment)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	entry := domain.JournalEntry{
		EntryID:         entryID,
		LinkedPaymentID: payment.PaymentID,
		Amount:          payment.Amount,
		EntryDate:       payment.PaymentDate,
		Description:     fmt.Sprintf("%s for cheque payment %s", payment.Direction, payment.PaymentID),
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, Account: debitAccount, Side: domain.Debit, Amount: payment.Amount},
			{LineID: uuid.NewString(), EntryID: entryID, Account: creditAccount, Side: domain.Credit, Amount: payment.Amount},
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := validateEntryBalance(entry.Lines); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to post journal entry for payment %s: %w", payment.PaymentID, err)
	}
	return &entry, nil
}

// reversedLines builds the offsetting legs for an entry: same accounts and
// amounts, debit and credit swapped.
func reversedLines(original []domain.JournalLine, newEntryID string) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(original))
	for i, line := range original {
		side := domain.Credit
		if line.Side == domain.Credit {
			side = domain.Debit
		}
		lines[i] = domain.JournalLine{
			LineID:  uuid.NewString(),
			EntryID: newEntryID,
			Account: line.Account,
			Side:    side,
			Amount:  line.Amount,
		}
	}
	return lines
}

// ReverseEntriesForPayment posts one offsetting entry for each entry linked
// to the payment that is neither a reversal itself nor already reversed. The
// originals are never mutated or deleted.
func (s *journalService) ReverseEntriesForPayment(ctx context.Context, paymentID string, reason string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, err := s.journalRepo.FindEntriesByPaymentID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to load journal entries for payment %s: %w", paymentID, err)
	}

	alreadyReversed := make(map[string]bool)
	for _, entry := range entries {
		if entry.ReversalOf != nil {
			alreadyReversed[*entry.ReversalOf] = true
		}
	}

	now := time.Now().UTC()
	for i := range entries {
		original := entries[i]
		if original.ReversalOf != nil || alreadyReversed[original.EntryID] {
			continue
		}

		newEntryID := uuid.NewString()
		originalID := original.EntryID
		reversal := domain.JournalEntry{
			EntryID:         newEntryID,
			LinkedPaymentID: paymentID,
			Amount:          original.Amount,
			EntryDate:       now,
			Description:     fmt.Sprintf("Reversal of journal entry %s: %s", originalID, reason),
			ReversalOf:      &originalID,
			Lines:           reversedLines(original.Lines, newEntryID),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}

		if err := s.journalRepo.SaveEntry(ctx, reversal); err != nil {
			return fmt.Errorf("failed to post reversal for journal entry %s: %w", originalID, err)
		}
		logger.Info("Journal entry reversed", slog.String("entry_id", originalID), slog.String("reversal_id", newEntryID))
	}
	return nil
}

// GetEntryByID retrieves one journal entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// GetEntriesByPaymentID retrieves all entries linked to a payment.
func (s *journalService) GetEntriesByPaymentID(ctx context.Context, paymentID string) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.FindEntriesByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entries for payment %s: %w", paymentID, err)
	}
	return entries, nil
}
