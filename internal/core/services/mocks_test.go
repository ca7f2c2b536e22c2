package services_test

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	portsstorage "github.com/finbook/finbook_backend/internal/core/ports/storage"
)

// --- Mock ChequeRepository ---

type MockChequeRepository struct {
	mock.Mock
}

var _ portsrepo.ChequeRepositoryFacade = (*MockChequeRepository)(nil)

func (m *MockChequeRepository) FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	args := m.Called(ctx, chequeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cheque), args.Error(1)
}

func (m *MockChequeRepository) FindChequeByIDForUpdate(ctx context.Context, tx pgx.Tx, chequeID string) (*domain.Cheque, error) {
	args := m.Called(ctx, tx, chequeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cheque), args.Error(1)
}

func (m *MockChequeRepository) ListCheques(ctx context.Context, filter portsrepo.ChequeListFilter, limit int, nextToken *string) ([]domain.Cheque, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.Cheque), returnedToken, args.Error(2)
}

func (m *MockChequeRepository) SaveCheque(ctx context.Context, cheque domain.Cheque) error {
	args := m.Called(ctx, cheque)
	return args.Error(0)
}

func (m *MockChequeRepository) SaveChequeInTx(ctx context.Context, tx pgx.Tx, cheque domain.Cheque) error {
	args := m.Called(ctx, tx, cheque)
	return args.Error(0)
}

func (m *MockChequeRepository) UpdateCheque(ctx context.Context, cheque domain.Cheque) error {
	args := m.Called(ctx, cheque)
	return args.Error(0)
}

func (m *MockChequeRepository) UpdateChequeInTx(ctx context.Context, tx pgx.Tx, cheque domain.Cheque) error {
	args := m.Called(ctx, tx, cheque)
	return args.Error(0)
}

func (m *MockChequeRepository) DeleteChequeInTx(ctx context.Context, tx pgx.Tx, chequeID string) error {
	args := m.Called(ctx, tx, chequeID)
	return args.Error(0)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByChequeIDInTx(ctx context.Context, tx pgx.Tx, chequeID string) (*domain.Payment, error) {
	args := m.Called(ctx, tx, chequeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByLegacyMatchInTx(ctx context.Context, tx pgx.Tx, transactionID string, method string, amount decimal.Decimal) (*domain.Payment, error) {
	args := m.Called(ctx, tx, transactionID, method, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentsByNotesReferenceInTx(ctx context.Context, tx pgx.Tx, chequeNumber string) ([]domain.Payment, error) {
	args := m.Called(ctx, tx, chequeNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentsByEndorsementChequeIDInTx(ctx context.Context, tx pgx.Tx, chequeID string) ([]domain.Payment, error) {
	args := m.Called(ctx, tx, chequeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllocationsByPaymentIDInTx(ctx context.Context, tx pgx.Tx, paymentID string) ([]domain.Allocation, error) {
	args := m.Called(ctx, tx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Allocation), args.Error(1)
}

func (m *MockPaymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment, allocations []domain.Allocation) error {
	args := m.Called(ctx, tx, payment, allocations)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeletePaymentInTx(ctx context.Context, tx pgx.Tx, paymentID string) error {
	args := m.Called(ctx, tx, paymentID)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindEntryByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntryByTransactionIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindOpenEntriesByParty(ctx context.Context, partyName string, entryType domain.LedgerEntryType) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, partyName, entryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindOpenEntriesByPartyForUpdate(ctx context.Context, tx pgx.Tx, partyName string, entryType domain.LedgerEntryType) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, partyName, entryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateEntryBalancesInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByPaymentID(ctx context.Context, paymentID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Mock TransactionManager ---

type MockTxManager struct {
	mock.Mock
}

var _ portsrepo.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock JournalSvc (as used by ChequeService) ---

type MockJournalSvc struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalSvc)(nil)

func (m *MockJournalSvc) PostForPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment, actor string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, payment, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) ReverseEntriesForPayment(ctx context.Context, paymentID string, reason string, actor string) error {
	args := m.Called(ctx, paymentID, reason, actor)
	return args.Error(0)
}

func (m *MockJournalSvc) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) GetEntriesByPaymentID(ctx context.Context, paymentID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

// --- Mock ChequeImageStore ---

type MockImageStore struct {
	mock.Mock
}

var _ portsstorage.ChequeImageStore = (*MockImageStore)(nil)

func (m *MockImageStore) Save(ctx context.Context, chequeNumber string, data []byte) (string, error) {
	args := m.Called(ctx, chequeNumber, data)
	return args.String(0), args.Error(1)
}

// stubActivity keeps the orchestrator's fire-and-forget recording out of
// every expectation list.
type stubActivity struct{}

var _ portssvc.ActivitySvc = stubActivity{}

func (stubActivity) Record(context.Context, string, string, map[string]any) {}
func (stubActivity) Close()                                                 {}
