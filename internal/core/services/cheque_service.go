package services

import (
	"context"
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
	portsstorage "github.com/finbook/finbook_backend/internal/core/ports/storage"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/middleware"
	"github.com/finbook/finbook_backend/internal/utils/accounting"
	"github.com/finbook/finbook_backend/internal/utils/money"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// chequeService orchestrates the cheque lifecycle. Every money-affecting
// command runs its reads and writes on one transaction from the
// TransactionManager: the cheque row is locked first, the transition and
// idempotency guards run against the locked row, and the payment, balance and
// journal writes commit together or not at all.
type chequeService struct {
	chequeRepo  portsrepo.ChequeRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	txManager   portsrepo.TransactionManager
	journalSvc  portssvc.JournalSvcFacade
	imageStore  portsstorage.ChequeImageStore
	activity    portssvc.ActivitySvc
}

// NewChequeService creates a new ChequeService.
func NewChequeService(
	chequeRepo portsrepo.ChequeRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	txManager portsrepo.TransactionManager,
	journalSvc portssvc.JournalSvcFacade,
	imageStore portsstorage.ChequeImageStore,
	activity portssvc.ActivitySvc,
) portssvc.ChequeSvcFacade {
	return &chequeService{
		chequeRepo:  chequeRepo,
		paymentRepo: paymentRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
		journalSvc:  journalSvc,
		imageStore:  imageStore,
		activity:    activity,
	}
}

var _ portssvc.ChequeSvcFacade = (*chequeService)(nil)

func newAuditFields(now time.Time, actor string) domain.AuditFields {
	return domain.AuditFields{CreatedAt: now, CreatedBy: actor, LastUpdatedAt: now, LastUpdatedBy: actor}
}

func paymentDirectionFor(direction domain.ChequeDirection) domain.PaymentDirection {
	if direction == domain.Incoming {
		return domain.Receipt
	}
	return domain.Disbursement
}

func ledgerSideFor(direction domain.ChequeDirection) domain.LedgerEntryType {
	if direction == domain.Incoming {
		return domain.Receivable
	}
	return domain.Payable
}

// SubmitCheque creates a cheque or edits an existing one. An edit whose
// requested status differs from the stored status is routed through the
// matching lifecycle command rather than written directly.
func (s *chequeService) SubmitCheque(ctx context.Context, req dto.SubmitChequeRequest, actor string) (*domain.Cheque, error) {
	amount, err := money.Parse(req.Amount.String())
	if err != nil {
		return nil, err
	}
	req.Amount = amount
	if req.ChequeID == "" {
		return s.createCheque(ctx, req, actor)
	}
	return s.editCheque(ctx, req, actor)
}

func (s *chequeService) createCheque(ctx context.Context, req dto.SubmitChequeRequest, actor string) (*domain.Cheque, error) {
	if req.Status != "" && domain.ChequeStatus(req.Status) != domain.ChequePending {
		return nil, fmt.Errorf("%w: new cheques start PENDING; use the lifecycle operations to move them", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	cheque := domain.Cheque{
		ChequeID:            uuid.NewString(),
		ChequeNumber:        req.ChequeNumber,
		Direction:           domain.ChequeDirection(req.Direction),
		Kind:                domain.KindNormal,
		Status:              domain.ChequePending,
		Amount:              req.Amount,
		PartyName:           req.PartyName,
		BankName:            req.BankName,
		DueDate:             req.DueDate,
		Notes:               req.Notes,
		LinkedTransactionID: req.LinkedTransactionID,
		AuditFields:         newAuditFields(now, actor),
	}

	if len(req.ImageData) > 0 {
		path, err := s.imageStore.Save(ctx, cheque.ChequeNumber, req.ImageData)
		if err != nil {
			return nil, fmt.Errorf("failed to store cheque image: %w", err)
		}
		cheque.ImagePath = &path
	}

	if err := s.chequeRepo.SaveCheque(ctx, cheque); err != nil {
		return nil, fmt.Errorf("failed to save cheque: %w", err)
	}

	s.activity.Record(ctx, actor, "cheque_created", map[string]any{
		"cheque_id": cheque.ChequeID,
		"direction": string(cheque.Direction),
		"amount":    cheque.Amount.String(),
	})
	return &cheque, nil
}

func (s *chequeService) editCheque(ctx context.Context, req dto.SubmitChequeRequest, actor string) (*domain.Cheque, error) {
	existing, err := s.chequeRepo.FindChequeByID(ctx, req.ChequeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", req.ChequeID, err)
	}

	requested := domain.ChequeStatus(req.Status)
	if req.Status != "" && requested != existing.Status {
		// A status-changing submit hands control to the lifecycle command and
		// never applies field edits, so reject any it carries instead of
		// dropping them.
		if !existing.Amount.Equal(req.Amount) {
			return nil, fmt.Errorf("%w: amount cannot change in the same request as a status change", apperrors.ErrConflict)
		}
		if !equalStringPtr(existing.LinkedTransactionID, req.LinkedTransactionID) {
			return nil, fmt.Errorf("%w: linked transaction cannot change in the same request as a status change", apperrors.ErrConflict)
		}
		if err := s.routeStatusChange(ctx, existing, requested, req, actor); err != nil {
			return nil, err
		}
		return s.chequeRepo.FindChequeByID(ctx, req.ChequeID)
	}

	// Plain field edit. Amount and the single-link transaction are frozen on
	// any cheque with financial side effects; revert to PENDING first.
	if existing.Status != domain.ChequePending {
		if !existing.Amount.Equal(req.Amount) {
			return nil, fmt.Errorf("%w: amount of a %s cheque cannot change", apperrors.ErrConflict, existing.Status)
		}
		if !equalStringPtr(existing.LinkedTransactionID, req.LinkedTransactionID) {
			return nil, fmt.Errorf("%w: linked transaction of a %s cheque cannot change", apperrors.ErrConflict, existing.Status)
		}
	}

	existing.ChequeNumber = req.ChequeNumber
	existing.Amount = req.Amount
	existing.PartyName = req.PartyName
	existing.BankName = req.BankName
	existing.DueDate = req.DueDate
	existing.Notes = req.Notes
	if existing.Status == domain.ChequePending {
		existing.LinkedTransactionID = req.LinkedTransactionID
	}
	existing.LastUpdatedAt = time.Now().UTC()
	existing.LastUpdatedBy = actor

	if len(req.ImageData) > 0 {
		path, err := s.imageStore.Save(ctx, existing.ChequeNumber, req.ImageData)
		if err != nil {
			return nil, fmt.Errorf("failed to store cheque image: %w", err)
		}
		existing.ImagePath = &path
	}

	if err := s.chequeRepo.UpdateCheque(ctx, *existing); err != nil {
		return nil, fmt.Errorf("failed to update cheque %s: %w", existing.ChequeID, err)
	}
	return existing, nil
}

// routeStatusChange maps an edit's requested status onto the lifecycle
// command that owns the transition. The command re-reads the cheque under a
// row lock, so the pre-read here is advisory only.
func (s *chequeService) routeStatusChange(ctx context.Context, existing *domain.Cheque, requested domain.ChequeStatus, req dto.SubmitChequeRequest, actor string) error {
	switch requested {
	case domain.ChequeCashed:
		return s.CashCheque(ctx, existing.ChequeID, dto.CashChequeRequest{PaymentDate: req.PaymentDate}, actor)
	case domain.ChequeBounced:
		return s.BounceCheque(ctx, existing.ChequeID, actor)
	case domain.ChequeEndorsed:
		return fmt.Errorf("%w: endorsement requires the endorse operation with an endorsee", apperrors.ErrValidation)
	case domain.ChequePending:
		switch existing.Status {
		case domain.ChequeEndorsed:
			return s.CancelEndorsement(ctx, existing.ChequeID, actor)
		default:
			return s.revertToPending(ctx, existing.ChequeID, actor)
		}
	case domain.ChequeCancelled:
		return s.cancelCheque(ctx, existing.ChequeID, actor)
	default:
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, requested)
	}
}

// applyAllocationPlansTx settles the planned amounts against their locked
// ledger entries and returns the allocation rows to persist with the payment.
// Zero plans produce no row. Entries must have been read FOR UPDATE on the
// same transaction.
func (s *chequeService) applyAllocationPlansTx(ctx context.Context, tx pgx.Tx, paymentID string, plans []accounting.AllocationPlan, entriesByTxn map[string]domain.LedgerEntry, now time.Time, actor string) ([]domain.Allocation, []string, error) {
	var allocations []domain.Allocation
	var settledTxns []string
	for _, plan := range plans {
		if plan.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		entry, ok := entriesByTxn[plan.TransactionID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: allocation references unknown transaction %s", apperrors.ErrValidation, plan.TransactionID)
		}
		updated, err := accounting.ApplyBalanceDelta(entry, plan.Amount)
		if err != nil {
			return nil, nil, err
		}
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actor
		if err := s.ledgerRepo.UpdateEntryBalancesInTx(ctx, tx, updated); err != nil {
			return nil, nil, fmt.Errorf("failed to update balances on transaction %s: %w", plan.TransactionID, err)
		}
		allocations = append(allocations, domain.Allocation{
			AllocationID:  uuid.NewString(),
			PaymentID:     paymentID,
			TransactionID: plan.TransactionID,
			Amount:        plan.Amount,
			AuditFields:   newAuditFields(now, actor),
		})
		settledTxns = append(settledTxns, plan.TransactionID)
	}
	return allocations, settledTxns, nil
}

// CashCheque transitions a cheque to CASHED. The payment, the linked ledger
// entry's balance update, the journal entry and the cheque update are one
// atomic unit.
func (s *chequeService) CashCheque(ctx context.Context, chequeID string, req dto.CashChequeRequest, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	cheque, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, chequeID)
	if err != nil {
		return fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if err := domain.ValidateChequeTransition(cheque.Status, domain.ChequeCashed, cheque.Direction); err != nil {
		return err
	}
	if cheque.LinkedPaymentID != nil {
		return fmt.Errorf("%w: cheque %s already has payment %s", apperrors.ErrAlreadyProcessed, chequeID, *cheque.LinkedPaymentID)
	}

	now := time.Now().UTC()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment := domain.Payment{
		PaymentID:           uuid.NewString(),
		Direction:           paymentDirectionFor(cheque.Direction),
		Method:              domain.PaymentMethodCheque,
		Amount:              cheque.Amount,
		PaymentDate:         paymentDate,
		PartyName:           cheque.PartyName,
		Notes:               fmt.Sprintf("Cashing of cheque %s", cheque.ChequeNumber),
		LinkedChequeID:      &cheque.ChequeID,
		LinkedTransactionID: cheque.LinkedTransactionID,
		AuditFields:         newAuditFields(now, actor),
	}

	var allocations []domain.Allocation
	var settledTxns []string
	if cheque.LinkedTransactionID != nil {
		entry, err := s.ledgerRepo.FindEntryByTransactionIDForUpdate(ctx, tx, *cheque.LinkedTransactionID)
		if err != nil {
			return fmt.Errorf("failed to find linked transaction %s: %w", *cheque.LinkedTransactionID, err)
		}
		plans := []accounting.AllocationPlan{{TransactionID: entry.TransactionID, Amount: cheque.Amount}}
		allocations, settledTxns, err = s.applyAllocationPlansTx(ctx, tx, payment.PaymentID, plans,
			map[string]domain.LedgerEntry{entry.TransactionID: *entry}, now, actor)
		if err != nil {
			return err
		}
	}

	if err := s.paymentRepo.SavePaymentInTx(ctx, tx, payment, allocations); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	if _, err := s.journalSvc.PostForPaymentInTx(ctx, tx, payment, actor); err != nil {
		return err
	}

	cheque.Status = domain.ChequeCashed
	cheque.ClearedDate = &paymentDate
	cheque.LinkedPaymentID = &payment.PaymentID
	cheque.PaidTransactionIDs = settledTxns
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = actor
	if err := s.chequeRepo.UpdateChequeInTx(ctx, tx, *cheque); err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", chequeID, err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit cash batch: %w", err)
	}

	logger.Info("Cheque cashed", slog.String("cheque_id", chequeID), slog.String("payment_id", payment.PaymentID))
	s.activity.Record(ctx, actor, "cheque_cashed", map[string]any{
		"cheque_id":  chequeID,
		"payment_id": payment.PaymentID,
		"amount":     cheque.Amount.String(),
	})
	return nil
}

// CashChequeWithAllocation cashes a cheque against several of the party's
// open ledger entries at once. With Auto set the amount is distributed FIFO
// over the open entries oldest-due-first; otherwise the caller's allocations
// are clamped to each entry's remaining balance and applied. Under- and
// over-allocation are reported, not rejected.
func (s *chequeService) CashChequeWithAllocation(ctx context.Context, chequeID string, req dto.CashWithAllocationRequest, actor string) (*dto.CashWithAllocationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	cheque, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, chequeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if err := domain.ValidateChequeTransition(cheque.Status, domain.ChequeCashed, cheque.Direction); err != nil {
		return nil, err
	}
	if cheque.LinkedPaymentID != nil {
		return nil, fmt.Errorf("%w: cheque %s already has payment %s", apperrors.ErrAlreadyProcessed, chequeID, *cheque.LinkedPaymentID)
	}

	manual := req.ClientAllocations
	wrongSide := req.SupplierAllocations
	if cheque.Direction == domain.Outgoing {
		manual, wrongSide = wrongSide, manual
	}
	if len(wrongSide) > 0 {
		return nil, fmt.Errorf("%w: allocations do not match the cheque direction", apperrors.ErrValidation)
	}
	if !req.Auto && len(manual) == 0 {
		return nil, fmt.Errorf("%w: either auto allocation or explicit allocations are required", apperrors.ErrValidation)
	}

	entries, err := s.ledgerRepo.FindOpenEntriesByPartyForUpdate(ctx, tx, cheque.PartyName, ledgerSideFor(cheque.Direction))
	if err != nil {
		return nil, fmt.Errorf("failed to find open entries for %s: %w", cheque.PartyName, err)
	}

	var plans []accounting.AllocationPlan
	if req.Auto {
		plans = accounting.DistributeFIFO(cheque.Amount, entries)
	} else {
		requested := make([]accounting.AllocationPlan, len(manual))
		for i, a := range manual {
			requested[i] = accounting.AllocationPlan{TransactionID: a.TransactionID, Amount: a.Amount}
		}
		plans, err = accounting.ClampManualAllocations(requested, entries)
		if err != nil {
			return nil, err
		}
	}
	summary := accounting.SummarizeAllocations(cheque.Amount, plans)

	now := time.Now().UTC()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment := domain.Payment{
		PaymentID:      uuid.NewString(),
		Direction:      paymentDirectionFor(cheque.Direction),
		Method:         domain.PaymentMethodCheque,
		Amount:         cheque.Amount,
		PaymentDate:    paymentDate,
		PartyName:      cheque.PartyName,
		Notes:          fmt.Sprintf("Cashing of cheque %s across %d transactions", cheque.ChequeNumber, len(plans)),
		LinkedChequeID: &cheque.ChequeID,
		AuditFields:    newAuditFields(now, actor),
	}

	entriesByTxn := make(map[string]domain.LedgerEntry, len(entries))
	for _, entry := range entries {
		entriesByTxn[entry.TransactionID] = entry
	}
	allocations, settledTxns, err := s.applyAllocationPlansTx(ctx, tx, payment.PaymentID, plans, entriesByTxn, now, actor)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SavePaymentInTx(ctx, tx, payment, allocations); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	if _, err := s.journalSvc.PostForPaymentInTx(ctx, tx, payment, actor); err != nil {
		return nil, err
	}

	cheque.Status = domain.ChequeCashed
	cheque.ClearedDate = &paymentDate
	cheque.LinkedPaymentID = &payment.PaymentID
	cheque.PaidTransactionIDs = settledTxns
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = actor
	if err := s.chequeRepo.UpdateChequeInTx(ctx, tx, *cheque); err != nil {
		return nil, fmt.Errorf("failed to update cheque %s: %w", chequeID, err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit cash batch: %w", err)
	}

	logger.Info("Cheque cashed with allocations",
		slog.String("cheque_id", chequeID),
		slog.String("payment_id", payment.PaymentID),
		slog.Int("settled_transactions", len(settledTxns)))
	s.activity.Record(ctx, actor, "cheque_cashed_allocated", map[string]any{
		"cheque_id":   chequeID,
		"payment_id":  payment.PaymentID,
		"allocated":   summary.Allocated.String(),
		"unallocated": summary.Unallocated.String(),
		"excess":      summary.Excess.String(),
	})

	return &dto.CashWithAllocationResponse{
		PaymentID:   payment.PaymentID,
		Allocated:   summary.Allocated,
		Unallocated: summary.Unallocated,
		Excess:      summary.Excess,
	}, nil
}

// reverseCashBatchTx undoes a cashed cheque's financial effects on the given
// transaction: every allocation's balance delta is applied in reverse and the
// payment is deleted. The cheque struct is mutated back to its pre-cash
// linkage but not written; the caller sets the target status and persists it.
// Returns the reversed payment's id for the post-commit journal reversal.
func (s *chequeService) reverseCashBatchTx(ctx context.Context, tx pgx.Tx, cheque *domain.Cheque, now time.Time, actor string) (string, error) {
	var payment *domain.Payment
	var err error

	if cheque.LinkedPaymentID != nil {
		payment, err = s.paymentRepo.FindPaymentByChequeIDInTx(ctx, tx, cheque.ChequeID)
	} else {
		// Rows predating the explicit cheque link: fall back to matching by
		// linked transaction, method and amount.
		if cheque.LinkedTransactionID == nil {
			return "", fmt.Errorf("%w: cashed cheque %s has no payment linkage to reverse", apperrors.ErrDataIntegrity, cheque.ChequeID)
		}
		payment, err = s.paymentRepo.FindPaymentByLegacyMatchInTx(ctx, tx, *cheque.LinkedTransactionID, domain.PaymentMethodCheque, cheque.Amount)
	}
	if err != nil {
		return "", fmt.Errorf("%w: payment for cashed cheque %s not found: %v", apperrors.ErrDataIntegrity, cheque.ChequeID, err)
	}

	allocations, err := s.paymentRepo.FindAllocationsByPaymentIDInTx(ctx, tx, payment.PaymentID)
	if err != nil {
		return "", fmt.Errorf("failed to load allocations for payment %s: %w", payment.PaymentID, err)
	}

	for _, alloc := range allocations {
		entry, err := s.ledgerRepo.FindEntryByTransactionIDForUpdate(ctx, tx, alloc.TransactionID)
		if err != nil {
			return "", fmt.Errorf("failed to find transaction %s: %w", alloc.TransactionID, err)
		}
		updated, err := accounting.ApplyBalanceDelta(*entry, alloc.Amount.Neg())
		if err != nil {
			return "", err
		}
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actor
		if err := s.ledgerRepo.UpdateEntryBalancesInTx(ctx, tx, updated); err != nil {
			return "", fmt.Errorf("failed to restore balances on transaction %s: %w", alloc.TransactionID, err)
		}
	}

	if err := s.paymentRepo.DeletePaymentInTx(ctx, tx, payment.PaymentID); err != nil {
		return "", fmt.Errorf("failed to delete payment %s: %w", payment.PaymentID, err)
	}

	cheque.ClearedDate = nil
	cheque.LinkedPaymentID = nil
	cheque.PaidTransactionIDs = nil
	return payment.PaymentID, nil
}

// revertToPending moves a CASHED or BOUNCED cheque back to PENDING, reversing
// cash effects when there are any.
func (s *chequeService) revertToPending(ctx context.Context, chequeID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	cheque, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, chequeID)
	if err != nil {
		return fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if err := domain.ValidateChequeTransition(cheque.Status, domain.ChequePending, cheque.Direction); err != nil {
		return err
	}

	now := time.Now().UTC()
	reversedPaymentID := ""
	if cheque.Status == domain.ChequeCashed {
		reversedPaymentID, err = s.reverseCashBatchTx(ctx, tx, cheque, now, actor)
		if err != nil {
			return err
		}
	}

	cheque.Status = domain.ChequePending
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = actor
	if err := s.chequeRepo.UpdateChequeInTx(ctx, tx, *cheque); err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", chequeID, err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit revert batch: %w", err)
	}

	if reversedPaymentID != "" {
		if err := s.journalSvc.ReverseEntriesForPayment(ctx, reversedPaymentID, "cheque reverted to pending", actor); err != nil {
			logger.Warn("Journal reversal failed after revert", slog.String("payment_id", reversedPaymentID), slog.Any("error", err))
		}
	}

	logger.Info("Cheque reverted to pending", slog.String("cheque_id", chequeID))
	s.activity.Record(ctx, actor, "cheque_reverted", map[string]any{"cheque_id": chequeID})
	return nil
}

// cancelCheque marks a PENDING cheque CANCELLED. Cancellation has no
// financial effects and is terminal.
func (s *chequeService) cancelCheque(ctx context.Context, chequeID string, actor string) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	cheque, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, chequeID)
	if err != nil {
		return fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if err := domain.ValidateChequeTransition(cheque.Status, domain.ChequeCancelled, cheque.Direction); err != nil {
		return err
	}

	now := time.Now().UTC()
	cheque.Status = domain.ChequeCancelled
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = actor
	if err := s.chequeRepo.UpdateChequeInTx(ctx, tx, *cheque); err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", chequeID, err)
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit cancel batch: %w", err)
	}

	s.activity.Record(ctx, actor, "cheque_cancelled", map[string]any{"cheque_id": chequeID})
	return nil
}

// BounceCheque marks a cheque BOUNCED. A cheque that was already CASHED has
// its payment, allocations and balances reversed in the same batch before the
// status flips; the journal reversal posts best-effort after commit.
func (s *chequeService) BounceCheque(ctx context.Context, chequeID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	cheque, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, chequeID)
	if err != nil {
		return fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if err := domain.ValidateChequeTransition(cheque.Status, domain.ChequeBounced, cheque.Direction); err != nil {
		return err
	}

	now := time.Now().UTC()
	reversedPaymentID := ""
	if cheque.Status == domain.ChequeCashed {
		reversedPaymentID, err = s.reverseCashBatchTx(ctx, tx, cheque, now, actor)
		if err != nil {
			return err
		}
	}

	cheque.Status = domain.ChequeBounced
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = actor
	if err := s.chequeRepo.UpdateChequeInTx(ctx, tx, *cheque); err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", chequeID, err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit bounce batch: %w", err)
	}

	if reversedPaymentID != "" {
		if err := s.journalSvc.ReverseEntriesForPayment(ctx, reversedPaymentID, "cheque bounced", actor); err != nil {
			logger.Warn("Journal reversal failed after bounce", slog.String("payment_id", reversedPaymentID), slog.Any("error", err))
		}
	}

	logger.Info("Cheque bounced", slog.String("cheque_id", chequeID))
	s.activity.Record(ctx, actor, "cheque_bounced", map[string]any{"cheque_id": chequeID})
	return nil
}

// EndorseCheque re-issues an incoming PENDING cheque to a supplier. One batch
// creates the synthetic outgoing cheque and two bookkeeping-only payments: a
// receipt settling the client's receivables and a disbursement settling the
// endorsee's payables. Neither payment moves cash; their journal entries net
// through the endorsement clearing account.
func (s *chequeService) EndorseCheque(ctx context.Context, chequeID string, req dto.EndorseChequeRequest, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	cheque, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, chequeID)
	if err != nil {
		return fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if err := domain.ValidateChequeTransition(cheque.Status, domain.ChequeEndorsed, cheque.Direction); err != nil {
		return err
	}
	if cheque.LinkedPaymentID != nil {
		return fmt.Errorf("%w: cheque %s already has payment %s", apperrors.ErrAlreadyProcessed, chequeID, *cheque.LinkedPaymentID)
	}

	now := time.Now().UTC()
	endorsedDate := now
	if req.EndorsedDate != nil {
		endorsedDate = *req.EndorsedDate
	}

	outgoing := domain.Cheque{
		ChequeID:            uuid.NewString(),
		ChequeNumber:        cheque.ChequeNumber,
		Direction:           domain.Outgoing,
		Kind:                domain.KindEndorsed,
		Status:              domain.ChequePending,
		Amount:              cheque.Amount,
		PartyName:           req.EndorsedTo,
		BankName:            cheque.BankName,
		DueDate:             cheque.DueDate,
		Notes:               fmt.Sprintf("Endorsed from %s's cheque %s", cheque.PartyName, cheque.ChequeNumber),
		LinkedTransactionID: req.TransactionID,
		AuditFields:         newAuditFields(now, actor),
	}
	if err := s.chequeRepo.SaveChequeInTx(ctx, tx, outgoing); err != nil {
		return fmt.Errorf("failed to save endorsed-to cheque: %w", err)
	}

	// Client side: the endorsement settles the original party's receivables
	// exactly as cashing would have, just without cash.
	receipt := domain.Payment{
		PaymentID:           uuid.NewString(),
		Direction:           domain.Receipt,
		Method:              domain.PaymentMethodCheque,
		Amount:              cheque.Amount,
		PaymentDate:         endorsedDate,
		PartyName:           cheque.PartyName,
		Notes:               fmt.Sprintf("Endorsement of cheque %s to %s", cheque.ChequeNumber, req.EndorsedTo),
		LinkedChequeID:      &cheque.ChequeID,
		LinkedTransactionID: cheque.LinkedTransactionID,
		IsEndorsement:       true,
		NoCashMovement:      true,
		EndorsementChequeID: &cheque.ChequeID,
		AuditFields:         newAuditFields(now, actor),
	}
	receiptAllocs, _, err := s.settleSideTx(ctx, tx, receipt.PaymentID, cheque.Amount, cheque.PartyName, domain.Receivable, cheque.LinkedTransactionID, now, actor)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.SavePaymentInTx(ctx, tx, receipt, receiptAllocs); err != nil {
		return fmt.Errorf("failed to save endorsement receipt: %w", err)
	}
	if _, err := s.journalSvc.PostForPaymentInTx(ctx, tx, receipt, actor); err != nil {
		return err
	}

	// Supplier side: the same value settles what we owe the endorsee.
	disbursement := domain.Payment{
		PaymentID:           uuid.NewString(),
		Direction:           domain.Disbursement,
		Method:              domain.PaymentMethodCheque,
		Amount:              cheque.Amount,
		PaymentDate:         endorsedDate,
		PartyName:           req.EndorsedTo,
		Notes:               fmt.Sprintf("Endorsed cheque %s received from %s", cheque.ChequeNumber, cheque.PartyName),
		LinkedChequeID:      &outgoing.ChequeID,
		LinkedTransactionID: req.TransactionID,
		IsEndorsement:       true,
		NoCashMovement:      true,
		EndorsementChequeID: &cheque.ChequeID,
		AuditFields:         newAuditFields(now, actor),
	}
	disbursementAllocs, _, err := s.settleSideTx(ctx, tx, disbursement.PaymentID, cheque.Amount, req.EndorsedTo, domain.Payable, req.TransactionID, now, actor)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.SavePaymentInTx(ctx, tx, disbursement, disbursementAllocs); err != nil {
		return fmt.Errorf("failed to save endorsement disbursement: %w", err)
	}
	if _, err := s.journalSvc.PostForPaymentInTx(ctx, tx, disbursement, actor); err != nil {
		return err
	}

	cheque.Status = domain.ChequeEndorsed
	cheque.EndorsedTo = &outgoing.PartyName
	cheque.EndorsedDate = &endorsedDate
	cheque.EndorsedToOutgoingID = &outgoing.ChequeID
	cheque.LinkedPaymentID = &receipt.PaymentID
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = actor
	if err := s.chequeRepo.UpdateChequeInTx(ctx, tx, *cheque); err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", chequeID, err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit endorsement batch: %w", err)
	}

	logger.Info("Cheque endorsed",
		slog.String("cheque_id", chequeID),
		slog.String("endorsed_to", req.EndorsedTo),
		slog.String("outgoing_cheque_id", outgoing.ChequeID))
	s.activity.Record(ctx, actor, "cheque_endorsed", map[string]any{
		"cheque_id":          chequeID,
		"endorsed_to":        req.EndorsedTo,
		"outgoing_cheque_id": outgoing.ChequeID,
	})
	return nil
}

// settleSideTx settles one party's side of an endorsement: against the named
// transaction when one is linked, otherwise FIFO over the party's open
// entries of the given type.
func (s *chequeService) settleSideTx(ctx context.Context, tx pgx.Tx, paymentID string, amount decimal.Decimal, partyName string, entryType domain.LedgerEntryType, transactionID *string, now time.Time, actor string) ([]domain.Allocation, []string, error) {
	var plans []accounting.AllocationPlan
	entriesByTxn := make(map[string]domain.LedgerEntry)

	if transactionID != nil {
		entry, err := s.ledgerRepo.FindEntryByTransactionIDForUpdate(ctx, tx, *transactionID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find transaction %s: %w", *transactionID, err)
		}
		entriesByTxn[entry.TransactionID] = *entry
		plans = []accounting.AllocationPlan{{TransactionID: entry.TransactionID, Amount: amount}}
	} else {
		entries, err := s.ledgerRepo.FindOpenEntriesByPartyForUpdate(ctx, tx, partyName, entryType)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find open entries for %s: %w", partyName, err)
		}
		for _, entry := range entries {
			entriesByTxn[entry.TransactionID] = entry
		}
		plans = accounting.DistributeFIFO(amount, entries)
	}

	return s.applyAllocationPlansTx(ctx, tx, paymentID, plans, entriesByTxn, now, actor)
}

// CancelEndorsement undoes an endorsement: both bookkeeping payments are
// reversed and deleted, the synthetic outgoing cheque is removed and the
// incoming cheque returns to PENDING. Refused once the endorsed-to cheque has
// moved on from PENDING.
func (s *chequeService) CancelEndorsement(ctx context.Context, chequeID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	cheque, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, chequeID)
	if err != nil {
		return fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if cheque.Status != domain.ChequeEndorsed {
		return fmt.Errorf("%w: cheque %s is %s, not ENDORSED", apperrors.ErrInvalidTransition, chequeID, cheque.Status)
	}

	now := time.Now().UTC()

	if cheque.EndorsedToOutgoingID != nil {
		outgoing, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, *cheque.EndorsedToOutgoingID)
		if err != nil {
			return fmt.Errorf("failed to find endorsed-to cheque %s: %w", *cheque.EndorsedToOutgoingID, err)
		}
		if outgoing.Status != domain.ChequePending {
			return fmt.Errorf("%w: endorsed-to cheque %s is already %s", apperrors.ErrConflict, outgoing.ChequeID, outgoing.Status)
		}
		if err := s.chequeRepo.DeleteChequeInTx(ctx, tx, outgoing.ChequeID); err != nil {
			return fmt.Errorf("failed to delete endorsed-to cheque %s: %w", outgoing.ChequeID, err)
		}
	}

	payments, err := s.paymentRepo.FindPaymentsByEndorsementChequeIDInTx(ctx, tx, cheque.ChequeID)
	if err != nil {
		return fmt.Errorf("failed to find endorsement payments for cheque %s: %w", chequeID, err)
	}

	var reversedPaymentIDs []string
	for _, payment := range payments {
		allocations, err := s.paymentRepo.FindAllocationsByPaymentIDInTx(ctx, tx, payment.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to load allocations for payment %s: %w", payment.PaymentID, err)
		}
		for _, alloc := range allocations {
			entry, err := s.ledgerRepo.FindEntryByTransactionIDForUpdate(ctx, tx, alloc.TransactionID)
			if err != nil {
				return fmt.Errorf("failed to find transaction %s: %w", alloc.TransactionID, err)
			}
			updated, err := accounting.ApplyBalanceDelta(*entry, alloc.Amount.Neg())
			if err != nil {
				return err
			}
			updated.LastUpdatedAt = now
			updated.LastUpdatedBy = actor
			if err := s.ledgerRepo.UpdateEntryBalancesInTx(ctx, tx, updated); err != nil {
				return fmt.Errorf("failed to restore balances on transaction %s: %w", alloc.TransactionID, err)
			}
		}
		if err := s.paymentRepo.DeletePaymentInTx(ctx, tx, payment.PaymentID); err != nil {
			return fmt.Errorf("failed to delete payment %s: %w", payment.PaymentID, err)
		}
		reversedPaymentIDs = append(reversedPaymentIDs, payment.PaymentID)
	}

	cheque.Status = domain.ChequePending
	cheque.EndorsedTo = nil
	cheque.EndorsedDate = nil
	cheque.EndorsedToOutgoingID = nil
	cheque.LinkedPaymentID = nil
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = actor
	if err := s.chequeRepo.UpdateChequeInTx(ctx, tx, *cheque); err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", chequeID, err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit cancel-endorsement batch: %w", err)
	}

	for _, paymentID := range reversedPaymentIDs {
		if err := s.journalSvc.ReverseEntriesForPayment(ctx, paymentID, "endorsement cancelled", actor); err != nil {
			logger.Warn("Journal reversal failed after endorsement cancel", slog.String("payment_id", paymentID), slog.Any("error", err))
		}
	}

	logger.Info("Endorsement cancelled", slog.String("cheque_id", chequeID))
	s.activity.Record(ctx, actor, "endorsement_cancelled", map[string]any{"cheque_id": chequeID})
	return nil
}

// DeleteCheque hard-deletes a PENDING cheque. Legacy payments that reference
// the cheque's number in their notes and carry no explicit link are reversed
// and removed in the same batch, so old data cannot leave orphaned
// allocations behind.
func (s *chequeService) DeleteCheque(ctx context.Context, chequeID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	cheque, err := s.chequeRepo.FindChequeByIDForUpdate(ctx, tx, chequeID)
	if err != nil {
		return fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if err := domain.ValidateChequeDeletion(cheque.Status); err != nil {
		return err
	}

	now := time.Now().UTC()
	legacyPayments, err := s.paymentRepo.FindPaymentsByNotesReferenceInTx(ctx, tx, cheque.ChequeNumber)
	if err != nil {
		return fmt.Errorf("failed to find legacy payments for cheque %s: %w", chequeID, err)
	}

	var reversedPaymentIDs []string
	for _, payment := range legacyPayments {
		if payment.LinkedChequeID != nil && *payment.LinkedChequeID != chequeID {
			continue // references another cheque with the same number
		}
		allocations, err := s.paymentRepo.FindAllocationsByPaymentIDInTx(ctx, tx, payment.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to load allocations for payment %s: %w", payment.PaymentID, err)
		}
		for _, alloc := range allocations {
			entry, err := s.ledgerRepo.FindEntryByTransactionIDForUpdate(ctx, tx, alloc.TransactionID)
			if err != nil {
				return fmt.Errorf("failed to find transaction %s: %w", alloc.TransactionID, err)
			}
			updated, err := accounting.ApplyBalanceDelta(*entry, alloc.Amount.Neg())
			if err != nil {
				return err
			}
			updated.LastUpdatedAt = now
			updated.LastUpdatedBy = actor
			if err := s.ledgerRepo.UpdateEntryBalancesInTx(ctx, tx, updated); err != nil {
				return fmt.Errorf("failed to restore balances on transaction %s: %w", alloc.TransactionID, err)
			}
		}
		if err := s.paymentRepo.DeletePaymentInTx(ctx, tx, payment.PaymentID); err != nil {
			return fmt.Errorf("failed to delete payment %s: %w", payment.PaymentID, err)
		}
		reversedPaymentIDs = append(reversedPaymentIDs, payment.PaymentID)
	}

	if err := s.chequeRepo.DeleteChequeInTx(ctx, tx, chequeID); err != nil {
		return fmt.Errorf("failed to delete cheque %s: %w", chequeID, err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit delete batch: %w", err)
	}

	for _, paymentID := range reversedPaymentIDs {
		if err := s.journalSvc.ReverseEntriesForPayment(ctx, paymentID, "cheque deleted", actor); err != nil {
			logger.Warn("Journal reversal failed after delete", slog.String("payment_id", paymentID), slog.Any("error", err))
		}
	}

	logger.Info("Cheque deleted", slog.String("cheque_id", chequeID), slog.Int("legacy_payments_removed", len(reversedPaymentIDs)))
	s.activity.Record(ctx, actor, "cheque_deleted", map[string]any{"cheque_id": chequeID})
	return nil
}

func (s *chequeService) GetChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	cheque, err := s.chequeRepo.FindChequeByID(ctx, chequeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	return cheque, nil
}

func (s *chequeService) ListCheques(ctx context.Context, params dto.ListChequesParams) (*dto.ListChequesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := portsrepo.ChequeListFilter{
		Status:    domain.ChequeStatus(params.Status),
		Direction: domain.ChequeDirection(params.Direction),
		PartyName: params.PartyName,
	}
	cheques, nextToken, err := s.chequeRepo.ListCheques(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}

	responses := make([]dto.ChequeResponse, len(cheques))
	for i := range cheques {
		responses[i] = dto.ToChequeResponse(&cheques[i])
	}
	return &dto.ListChequesResponse{Cheques: responses, NextToken: nextToken}, nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
