package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/core/services"
	"github.com/finbook/finbook_backend/internal/dto"
)

type ChequeServiceTestSuite struct {
	suite.Suite
	ctx context.Context

	chequeRepo  *MockChequeRepository
	paymentRepo *MockPaymentRepository
	ledgerRepo  *MockLedgerRepository
	txManager   *MockTxManager
	journalSvc  *MockJournalSvc
	imageStore  *MockImageStore

	service portssvc.ChequeSvcFacade
	actor   string
}

func (s *ChequeServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.chequeRepo = new(MockChequeRepository)
	s.paymentRepo = new(MockPaymentRepository)
	s.ledgerRepo = new(MockLedgerRepository)
	s.txManager = new(MockTxManager)
	s.journalSvc = new(MockJournalSvc)
	s.imageStore = new(MockImageStore)
	s.actor = uuid.NewString()

	s.service = services.NewChequeService(
		s.chequeRepo,
		s.paymentRepo,
		s.ledgerRepo,
		s.txManager,
		s.journalSvc,
		s.imageStore,
		stubActivity{},
	)
}

// expectTx wires the Begin/Rollback pair every atomic command uses. Commit is
// expected separately so failure tests can assert it never ran.
func (s *ChequeServiceTestSuite) expectTx() {
	s.txManager.On("Begin", mock.Anything).Return(nil, nil)
	s.txManager.On("Rollback", mock.Anything, mock.Anything).Return(nil)
}

func (s *ChequeServiceTestSuite) pendingIncomingCheque(amount int64) *domain.Cheque {
	txnID := "TXN-" + uuid.NewString()
	return &domain.Cheque{
		ChequeID:            uuid.NewString(),
		ChequeNumber:        "CHQ-1001",
		Direction:           domain.Incoming,
		Kind:                domain.KindNormal,
		Status:              domain.ChequePending,
		Amount:              decimal.NewFromInt(amount),
		PartyName:           "Acme Traders",
		DueDate:             time.Now().UTC(),
		LinkedTransactionID: &txnID,
	}
}

func openEntry(txnID, party string, entryType domain.LedgerEntryType, amount, totalPaid int64) domain.LedgerEntry {
	amt := decimal.NewFromInt(amount)
	paid := decimal.NewFromInt(totalPaid)
	status := domain.Unpaid
	if totalPaid > 0 {
		status = domain.Partial
	}
	return domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		TransactionID:    txnID,
		EntryType:        entryType,
		PartyName:        party,
		Amount:           amt,
		TotalPaid:        paid,
		RemainingBalance: amt.Sub(paid),
		PaymentStatus:    status,
		DueDate:          time.Now().UTC(),
	}
}

func (s *ChequeServiceTestSuite) TestCashCheque_Success() {
	cheque := s.pendingIncomingCheque(100)
	entry := openEntry(*cheque.LinkedTransactionID, cheque.PartyName, domain.Receivable, 100, 0)

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.ledgerRepo.On("FindEntryByTransactionIDForUpdate", mock.Anything, mock.Anything, entry.TransactionID).Return(&entry, nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.TotalPaid.Equal(decimal.NewFromInt(100)) &&
			e.RemainingBalance.IsZero() &&
			e.PaymentStatus == domain.Paid
	})).Return(nil)
	s.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Direction == domain.Receipt &&
			p.Amount.Equal(cheque.Amount) &&
			p.Method == domain.PaymentMethodCheque &&
			!p.NoCashMovement
	}), mock.MatchedBy(func(allocs []domain.Allocation) bool {
		return len(allocs) == 1 && allocs[0].TransactionID == entry.TransactionID
	})).Return(nil)
	s.journalSvc.On("PostForPaymentInTx", mock.Anything, mock.Anything, mock.Anything, s.actor).Return(&domain.JournalEntry{}, nil)
	s.chequeRepo.On("UpdateChequeInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequeCashed &&
			c.LinkedPaymentID != nil &&
			c.ClearedDate != nil &&
			len(c.PaidTransactionIDs) == 1
	})).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)

	err := s.service.CashCheque(s.ctx, cheque.ChequeID, dto.CashChequeRequest{}, s.actor)

	assert.NoError(s.T(), err)
	s.chequeRepo.AssertExpectations(s.T())
	s.ledgerRepo.AssertExpectations(s.T())
	s.paymentRepo.AssertExpectations(s.T())
	s.txManager.AssertExpectations(s.T())
}

func (s *ChequeServiceTestSuite) TestCashCheque_AlreadyProcessed() {
	cheque := s.pendingIncomingCheque(100)
	existingPaymentID := uuid.NewString()
	cheque.LinkedPaymentID = &existingPaymentID

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)

	err := s.service.CashCheque(s.ctx, cheque.ChequeID, dto.CashChequeRequest{}, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrAlreadyProcessed)
	s.txManager.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.paymentRepo.AssertNotCalled(s.T(), "SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ChequeServiceTestSuite) TestCashCheque_InvalidTransition() {
	cheque := s.pendingIncomingCheque(100)
	cheque.Status = domain.ChequeCancelled

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)

	err := s.service.CashCheque(s.ctx, cheque.ChequeID, dto.CashChequeRequest{}, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidTransition)
	s.txManager.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

// A failed balance update must abort the whole batch: no payment is saved, no
// journal entry is posted, nothing commits.
func (s *ChequeServiceTestSuite) TestCashCheque_AtomicOnLedgerFailure() {
	cheque := s.pendingIncomingCheque(100)
	entry := openEntry(*cheque.LinkedTransactionID, cheque.PartyName, domain.Receivable, 100, 0)

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.ledgerRepo.On("FindEntryByTransactionIDForUpdate", mock.Anything, mock.Anything, entry.TransactionID).Return(&entry, nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("write failed"))

	err := s.service.CashCheque(s.ctx, cheque.ChequeID, dto.CashChequeRequest{}, s.actor)

	assert.Error(s.T(), err)
	s.txManager.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.paymentRepo.AssertNotCalled(s.T(), "SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.journalSvc.AssertNotCalled(s.T(), "PostForPaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.chequeRepo.AssertNotCalled(s.T(), "UpdateChequeInTx", mock.Anything, mock.Anything, mock.Anything)
	s.txManager.AssertCalled(s.T(), "Rollback", mock.Anything, mock.Anything)
}

// Bouncing a cashed cheque restores the ledger entry to its pre-cash state
// and removes the payment in the same batch.
func (s *ChequeServiceTestSuite) TestBounceCheque_AfterCash_RestoresBalances() {
	cheque := s.pendingIncomingCheque(100)
	paymentID := uuid.NewString()
	clearedDate := time.Now().UTC()
	cheque.Status = domain.ChequeCashed
	cheque.LinkedPaymentID = &paymentID
	cheque.ClearedDate = &clearedDate
	cheque.PaidTransactionIDs = []string{*cheque.LinkedTransactionID}

	payment := domain.Payment{PaymentID: paymentID, Amount: cheque.Amount, Direction: domain.Receipt}
	settled := openEntry(*cheque.LinkedTransactionID, cheque.PartyName, domain.Receivable, 100, 100)
	settled.PaymentStatus = domain.Paid

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.paymentRepo.On("FindPaymentByChequeIDInTx", mock.Anything, mock.Anything, cheque.ChequeID).Return(&payment, nil)
	s.paymentRepo.On("FindAllocationsByPaymentIDInTx", mock.Anything, mock.Anything, paymentID).Return([]domain.Allocation{
		{AllocationID: uuid.NewString(), PaymentID: paymentID, TransactionID: settled.TransactionID, Amount: decimal.NewFromInt(100)},
	}, nil)
	s.ledgerRepo.On("FindEntryByTransactionIDForUpdate", mock.Anything, mock.Anything, settled.TransactionID).Return(&settled, nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.TotalPaid.IsZero() &&
			e.RemainingBalance.Equal(decimal.NewFromInt(100)) &&
			e.PaymentStatus == domain.Unpaid
	})).Return(nil)
	s.paymentRepo.On("DeletePaymentInTx", mock.Anything, mock.Anything, paymentID).Return(nil)
	s.chequeRepo.On("UpdateChequeInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequeBounced &&
			c.LinkedPaymentID == nil &&
			c.ClearedDate == nil &&
			c.PaidTransactionIDs == nil
	})).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)
	s.journalSvc.On("ReverseEntriesForPayment", mock.Anything, paymentID, mock.Anything, s.actor).Return(nil)

	err := s.service.BounceCheque(s.ctx, cheque.ChequeID, s.actor)

	assert.NoError(s.T(), err)
	s.ledgerRepo.AssertExpectations(s.T())
	s.paymentRepo.AssertExpectations(s.T())
	s.journalSvc.AssertExpectations(s.T())
}

func (s *ChequeServiceTestSuite) TestBounceCheque_FromPending_NoFinancialEffects() {
	cheque := s.pendingIncomingCheque(100)

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.chequeRepo.On("UpdateChequeInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequeBounced
	})).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)

	err := s.service.BounceCheque(s.ctx, cheque.ChequeID, s.actor)

	assert.NoError(s.T(), err)
	s.paymentRepo.AssertNotCalled(s.T(), "DeletePaymentInTx", mock.Anything, mock.Anything, mock.Anything)
	s.journalSvc.AssertNotCalled(s.T(), "ReverseEntriesForPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ChequeServiceTestSuite) TestCashChequeWithAllocation_AutoFIFO() {
	cheque := s.pendingIncomingCheque(60)
	cheque.LinkedTransactionID = nil
	entries := []domain.LedgerEntry{
		openEntry("TXN-A", cheque.PartyName, domain.Receivable, 30, 0),
		openEntry("TXN-B", cheque.PartyName, domain.Receivable, 50, 0),
		openEntry("TXN-C", cheque.PartyName, domain.Receivable, 20, 0),
	}

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.ledgerRepo.On("FindOpenEntriesByPartyForUpdate", mock.Anything, mock.Anything, cheque.PartyName, domain.Receivable).Return(entries, nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.TransactionID == "TXN-A" && e.TotalPaid.Equal(decimal.NewFromInt(30)) && e.PaymentStatus == domain.Paid
	})).Return(nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.TransactionID == "TXN-B" && e.TotalPaid.Equal(decimal.NewFromInt(30)) && e.PaymentStatus == domain.Partial
	})).Return(nil)
	s.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(allocs []domain.Allocation) bool {
		// the exhausted third entry gets no allocation row
		return len(allocs) == 2
	})).Return(nil)
	s.journalSvc.On("PostForPaymentInTx", mock.Anything, mock.Anything, mock.Anything, s.actor).Return(&domain.JournalEntry{}, nil)
	s.chequeRepo.On("UpdateChequeInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequeCashed && len(c.PaidTransactionIDs) == 2
	})).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)

	resp, err := s.service.CashChequeWithAllocation(s.ctx, cheque.ChequeID, dto.CashWithAllocationRequest{Auto: true, ClientAllocations: nil}, s.actor)

	assert.NoError(s.T(), err)
	assert.True(s.T(), resp.Allocated.Equal(decimal.NewFromInt(60)))
	assert.True(s.T(), resp.Unallocated.IsZero())
	assert.True(s.T(), resp.Excess.IsZero())
	s.ledgerRepo.AssertExpectations(s.T())
}

func (s *ChequeServiceTestSuite) TestCashChequeWithAllocation_ExcessBecomesCredit() {
	cheque := s.pendingIncomingCheque(100)
	cheque.LinkedTransactionID = nil
	entries := []domain.LedgerEntry{
		openEntry("TXN-A", cheque.PartyName, domain.Receivable, 40, 0),
	}

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.ledgerRepo.On("FindOpenEntriesByPartyForUpdate", mock.Anything, mock.Anything, cheque.PartyName, domain.Receivable).Return(entries, nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.journalSvc.On("PostForPaymentInTx", mock.Anything, mock.Anything, mock.Anything, s.actor).Return(&domain.JournalEntry{}, nil)
	s.chequeRepo.On("UpdateChequeInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)

	resp, err := s.service.CashChequeWithAllocation(s.ctx, cheque.ChequeID, dto.CashWithAllocationRequest{Auto: true}, s.actor)

	assert.NoError(s.T(), err)
	assert.True(s.T(), resp.Allocated.Equal(decimal.NewFromInt(40)))
	assert.True(s.T(), resp.Unallocated.Equal(decimal.NewFromInt(60)))
	assert.True(s.T(), resp.Excess.IsZero())
}

func (s *ChequeServiceTestSuite) TestCashChequeWithAllocation_WrongSideRejected() {
	cheque := s.pendingIncomingCheque(100)

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)

	_, err := s.service.CashChequeWithAllocation(s.ctx, cheque.ChequeID, dto.CashWithAllocationRequest{
		SupplierAllocations: []dto.AllocationInput{{TransactionID: "TXN-X", Amount: decimal.NewFromInt(10)}},
	}, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	s.txManager.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

// Endorsing moves 100 of client debt and 100 of supplier debt with zero cash:
// one synthetic outgoing cheque and two bookkeeping-only payments.
func (s *ChequeServiceTestSuite) TestEndorseCheque_Success() {
	cheque := s.pendingIncomingCheque(100)
	cheque.LinkedTransactionID = nil
	supplierTxn := "SUP-1"

	clientEntries := []domain.LedgerEntry{openEntry("TXN-A", cheque.PartyName, domain.Receivable, 100, 0)}
	supplierEntry := openEntry(supplierTxn, "Supplier B", domain.Payable, 100, 0)

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.chequeRepo.On("SaveChequeInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Direction == domain.Outgoing &&
			c.Kind == domain.KindEndorsed &&
			c.Status == domain.ChequePending &&
			c.PartyName == "Supplier B" &&
			c.Amount.Equal(cheque.Amount)
	})).Return(nil)
	s.ledgerRepo.On("FindOpenEntriesByPartyForUpdate", mock.Anything, mock.Anything, cheque.PartyName, domain.Receivable).Return(clientEntries, nil)
	s.ledgerRepo.On("FindEntryByTransactionIDForUpdate", mock.Anything, mock.Anything, supplierTxn).Return(&supplierEntry, nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(2)
	s.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Direction == domain.Receipt && p.NoCashMovement && p.IsEndorsement && p.EndorsementChequeID != nil
	}), mock.Anything).Return(nil)
	s.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Direction == domain.Disbursement && p.NoCashMovement && p.PartyName == "Supplier B"
	}), mock.Anything).Return(nil)
	s.journalSvc.On("PostForPaymentInTx", mock.Anything, mock.Anything, mock.Anything, s.actor).Return(&domain.JournalEntry{}, nil).Times(2)
	s.chequeRepo.On("UpdateChequeInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequeEndorsed &&
			c.EndorsedTo != nil && *c.EndorsedTo == "Supplier B" &&
			c.EndorsedToOutgoingID != nil
	})).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)

	err := s.service.EndorseCheque(s.ctx, cheque.ChequeID, dto.EndorseChequeRequest{
		EndorsedTo:    "Supplier B",
		TransactionID: &supplierTxn,
	}, s.actor)

	assert.NoError(s.T(), err)
	s.chequeRepo.AssertExpectations(s.T())
	s.paymentRepo.AssertExpectations(s.T())
	s.journalSvc.AssertExpectations(s.T())
}

func (s *ChequeServiceTestSuite) TestEndorseCheque_OutgoingRejected() {
	cheque := s.pendingIncomingCheque(100)
	cheque.Direction = domain.Outgoing

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)

	err := s.service.EndorseCheque(s.ctx, cheque.ChequeID, dto.EndorseChequeRequest{EndorsedTo: "Supplier B"}, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidTransition)
	s.txManager.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *ChequeServiceTestSuite) TestCancelEndorsement_Success() {
	cheque := s.pendingIncomingCheque(100)
	outgoingID := uuid.NewString()
	receiptID := uuid.NewString()
	endorsedTo := "Supplier B"
	endorsedDate := time.Now().UTC()
	cheque.Status = domain.ChequeEndorsed
	cheque.EndorsedTo = &endorsedTo
	cheque.EndorsedDate = &endorsedDate
	cheque.EndorsedToOutgoingID = &outgoingID
	cheque.LinkedPaymentID = &receiptID

	outgoing := domain.Cheque{ChequeID: outgoingID, Status: domain.ChequePending, Direction: domain.Outgoing, Kind: domain.KindEndorsed}
	disbursementID := uuid.NewString()
	payments := []domain.Payment{
		{PaymentID: receiptID, Direction: domain.Receipt, NoCashMovement: true},
		{PaymentID: disbursementID, Direction: domain.Disbursement, NoCashMovement: true},
	}
	clientSettled := openEntry("TXN-A", cheque.PartyName, domain.Receivable, 100, 100)
	supplierSettled := openEntry("SUP-1", endorsedTo, domain.Payable, 100, 100)

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, outgoingID).Return(&outgoing, nil)
	s.chequeRepo.On("DeleteChequeInTx", mock.Anything, mock.Anything, outgoingID).Return(nil)
	s.paymentRepo.On("FindPaymentsByEndorsementChequeIDInTx", mock.Anything, mock.Anything, cheque.ChequeID).Return(payments, nil)
	s.paymentRepo.On("FindAllocationsByPaymentIDInTx", mock.Anything, mock.Anything, receiptID).Return([]domain.Allocation{
		{TransactionID: clientSettled.TransactionID, Amount: decimal.NewFromInt(100)},
	}, nil)
	s.paymentRepo.On("FindAllocationsByPaymentIDInTx", mock.Anything, mock.Anything, disbursementID).Return([]domain.Allocation{
		{TransactionID: supplierSettled.TransactionID, Amount: decimal.NewFromInt(100)},
	}, nil)
	s.ledgerRepo.On("FindEntryByTransactionIDForUpdate", mock.Anything, mock.Anything, clientSettled.TransactionID).Return(&clientSettled, nil)
	s.ledgerRepo.On("FindEntryByTransactionIDForUpdate", mock.Anything, mock.Anything, supplierSettled.TransactionID).Return(&supplierSettled, nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.TotalPaid.IsZero() && e.PaymentStatus == domain.Unpaid
	})).Return(nil).Times(2)
	s.paymentRepo.On("DeletePaymentInTx", mock.Anything, mock.Anything, receiptID).Return(nil)
	s.paymentRepo.On("DeletePaymentInTx", mock.Anything, mock.Anything, disbursementID).Return(nil)
	s.chequeRepo.On("UpdateChequeInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequePending &&
			c.EndorsedTo == nil &&
			c.EndorsedToOutgoingID == nil &&
			c.LinkedPaymentID == nil
	})).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)
	s.journalSvc.On("ReverseEntriesForPayment", mock.Anything, receiptID, mock.Anything, s.actor).Return(nil)
	s.journalSvc.On("ReverseEntriesForPayment", mock.Anything, disbursementID, mock.Anything, s.actor).Return(nil)

	err := s.service.CancelEndorsement(s.ctx, cheque.ChequeID, s.actor)

	assert.NoError(s.T(), err)
	s.chequeRepo.AssertExpectations(s.T())
	s.paymentRepo.AssertExpectations(s.T())
	s.ledgerRepo.AssertExpectations(s.T())
	s.journalSvc.AssertExpectations(s.T())
}

func (s *ChequeServiceTestSuite) TestCancelEndorsement_RefusedWhenOutgoingCashed() {
	cheque := s.pendingIncomingCheque(100)
	outgoingID := uuid.NewString()
	cheque.Status = domain.ChequeEndorsed
	cheque.EndorsedToOutgoingID = &outgoingID
	outgoing := domain.Cheque{ChequeID: outgoingID, Status: domain.ChequeCashed, Direction: domain.Outgoing}

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, outgoingID).Return(&outgoing, nil)

	err := s.service.CancelEndorsement(s.ctx, cheque.ChequeID, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
	s.txManager.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.chequeRepo.AssertNotCalled(s.T(), "DeleteChequeInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ChequeServiceTestSuite) TestDeleteCheque_OnlyPending() {
	cheque := s.pendingIncomingCheque(100)
	cheque.Status = domain.ChequeCashed

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)

	err := s.service.DeleteCheque(s.ctx, cheque.ChequeID, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidTransition)
	s.chequeRepo.AssertNotCalled(s.T(), "DeleteChequeInTx", mock.Anything, mock.Anything, mock.Anything)
	s.txManager.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *ChequeServiceTestSuite) TestDeleteCheque_RemovesLegacyNotesPayments() {
	cheque := s.pendingIncomingCheque(100)
	legacyPaymentID := uuid.NewString()
	legacy := domain.Payment{PaymentID: legacyPaymentID, Notes: "paid via cheque CHQ-1001"}
	settled := openEntry("TXN-OLD", cheque.PartyName, domain.Receivable, 100, 100)

	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.paymentRepo.On("FindPaymentsByNotesReferenceInTx", mock.Anything, mock.Anything, cheque.ChequeNumber).Return([]domain.Payment{legacy}, nil)
	s.paymentRepo.On("FindAllocationsByPaymentIDInTx", mock.Anything, mock.Anything, legacyPaymentID).Return([]domain.Allocation{
		{TransactionID: settled.TransactionID, Amount: decimal.NewFromInt(100)},
	}, nil)
	s.ledgerRepo.On("FindEntryByTransactionIDForUpdate", mock.Anything, mock.Anything, settled.TransactionID).Return(&settled, nil)
	s.ledgerRepo.On("UpdateEntryBalancesInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.paymentRepo.On("DeletePaymentInTx", mock.Anything, mock.Anything, legacyPaymentID).Return(nil)
	s.chequeRepo.On("DeleteChequeInTx", mock.Anything, mock.Anything, cheque.ChequeID).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)
	s.journalSvc.On("ReverseEntriesForPayment", mock.Anything, legacyPaymentID, mock.Anything, s.actor).Return(nil)

	err := s.service.DeleteCheque(s.ctx, cheque.ChequeID, s.actor)

	assert.NoError(s.T(), err)
	s.paymentRepo.AssertExpectations(s.T())
	s.chequeRepo.AssertExpectations(s.T())
}

func (s *ChequeServiceTestSuite) TestSubmitCheque_CreatesPending() {
	req := dto.SubmitChequeRequest{
		ChequeNumber: "CHQ-2001",
		Direction:    string(domain.Incoming),
		Amount:       decimal.NewFromInt(250),
		PartyName:    "Acme Traders",
		DueDate:      time.Now().UTC(),
	}

	s.chequeRepo.On("SaveCheque", mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Status == domain.ChequePending &&
			c.Kind == domain.KindNormal &&
			c.ChequeID != "" &&
			c.CreatedBy == s.actor
	})).Return(nil)

	cheque, err := s.service.SubmitCheque(s.ctx, req, s.actor)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), domain.ChequePending, cheque.Status)
	s.chequeRepo.AssertExpectations(s.T())
}

func (s *ChequeServiceTestSuite) TestSubmitCheque_RejectsNonPositiveAmount() {
	req := dto.SubmitChequeRequest{
		ChequeNumber: "CHQ-2002",
		Direction:    string(domain.Incoming),
		Amount:       decimal.Zero,
		PartyName:    "Acme Traders",
		DueDate:      time.Now().UTC(),
	}

	_, err := s.service.SubmitCheque(s.ctx, req, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	s.chequeRepo.AssertNotCalled(s.T(), "SaveCheque", mock.Anything, mock.Anything)
}

func (s *ChequeServiceTestSuite) TestSubmitCheque_AmountFrozenWhileCashed() {
	cheque := s.pendingIncomingCheque(100)
	paymentID := uuid.NewString()
	cheque.Status = domain.ChequeCashed
	cheque.LinkedPaymentID = &paymentID

	s.chequeRepo.On("FindChequeByID", mock.Anything, cheque.ChequeID).Return(cheque, nil)

	_, err := s.service.SubmitCheque(s.ctx, dto.SubmitChequeRequest{
		ChequeID:            cheque.ChequeID,
		ChequeNumber:        cheque.ChequeNumber,
		Direction:           string(cheque.Direction),
		Amount:              decimal.NewFromInt(150),
		PartyName:           cheque.PartyName,
		DueDate:             cheque.DueDate,
		Status:              string(domain.ChequeCashed),
		LinkedTransactionID: cheque.LinkedTransactionID,
	}, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
	s.chequeRepo.AssertNotCalled(s.T(), "UpdateCheque", mock.Anything, mock.Anything)
}

// A status-changing submit must not smuggle field edits along: the lifecycle
// command never applies them, so they are rejected rather than dropped.
func (s *ChequeServiceTestSuite) TestSubmitCheque_StatusEditRejectsAmountChange() {
	cheque := s.pendingIncomingCheque(100)
	paymentID := uuid.NewString()
	cheque.Status = domain.ChequeCashed
	cheque.LinkedPaymentID = &paymentID

	s.chequeRepo.On("FindChequeByID", mock.Anything, cheque.ChequeID).Return(cheque, nil)

	_, err := s.service.SubmitCheque(s.ctx, dto.SubmitChequeRequest{
		ChequeID:            cheque.ChequeID,
		ChequeNumber:        cheque.ChequeNumber,
		Direction:           string(cheque.Direction),
		Amount:              decimal.NewFromInt(150),
		PartyName:           cheque.PartyName,
		DueDate:             cheque.DueDate,
		Status:              string(domain.ChequeBounced),
		LinkedTransactionID: cheque.LinkedTransactionID,
	}, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
	s.txManager.AssertNotCalled(s.T(), "Begin", mock.Anything)
	s.txManager.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *ChequeServiceTestSuite) TestSubmitCheque_StatusEditRejectsLinkChange() {
	cheque := s.pendingIncomingCheque(100)
	paymentID := uuid.NewString()
	cheque.Status = domain.ChequeCashed
	cheque.LinkedPaymentID = &paymentID
	otherTxn := "TXN-other"

	s.chequeRepo.On("FindChequeByID", mock.Anything, cheque.ChequeID).Return(cheque, nil)

	_, err := s.service.SubmitCheque(s.ctx, dto.SubmitChequeRequest{
		ChequeID:            cheque.ChequeID,
		ChequeNumber:        cheque.ChequeNumber,
		Direction:           string(cheque.Direction),
		Amount:              cheque.Amount,
		PartyName:           cheque.PartyName,
		DueDate:             cheque.DueDate,
		Status:              string(domain.ChequePending),
		LinkedTransactionID: &otherTxn,
	}, s.actor)

	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
	s.txManager.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *ChequeServiceTestSuite) TestSubmitCheque_RoundsAmountToCents() {
	amount, err := decimal.NewFromString("10.005")
	s.Require().NoError(err)

	req := dto.SubmitChequeRequest{
		ChequeNumber: "CHQ-2003",
		Direction:    string(domain.Incoming),
		Amount:       amount,
		PartyName:    "Acme Traders",
		DueDate:      time.Now().UTC(),
	}

	s.chequeRepo.On("SaveCheque", mock.Anything, mock.MatchedBy(func(c domain.Cheque) bool {
		return c.Amount.Equal(decimal.RequireFromString("10.01"))
	})).Return(nil)

	cheque, err := s.service.SubmitCheque(s.ctx, req, s.actor)

	assert.NoError(s.T(), err)
	assert.True(s.T(), cheque.Amount.Equal(decimal.RequireFromString("10.01")))
	s.chequeRepo.AssertExpectations(s.T())
}

// Editing a cheque's status routes through the lifecycle command owning that
// transition instead of writing the status directly.
func (s *ChequeServiceTestSuite) TestSubmitCheque_StatusEditRoutesToCash() {
	cheque := s.pendingIncomingCheque(100)
	cheque.LinkedTransactionID = nil

	s.chequeRepo.On("FindChequeByID", mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.expectTx()
	s.chequeRepo.On("FindChequeByIDForUpdate", mock.Anything, mock.Anything, cheque.ChequeID).Return(cheque, nil)
	s.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.journalSvc.On("PostForPaymentInTx", mock.Anything, mock.Anything, mock.Anything, s.actor).Return(&domain.JournalEntry{}, nil)
	s.chequeRepo.On("UpdateChequeInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil)

	result, err := s.service.SubmitCheque(s.ctx, dto.SubmitChequeRequest{
		ChequeID:     cheque.ChequeID,
		ChequeNumber: cheque.ChequeNumber,
		Direction:    string(cheque.Direction),
		Amount:       cheque.Amount,
		PartyName:    cheque.PartyName,
		DueDate:      cheque.DueDate,
		Status:       string(domain.ChequeCashed),
	}, s.actor)

	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), result)
	s.txManager.AssertCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func TestChequeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChequeServiceTestSuite))
}
