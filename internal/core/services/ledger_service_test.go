package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/core/services"
	"github.com/finbook/finbook_backend/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.LedgerSvcFacade
	ctx            context.Context
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.service = services.NewLedgerService(s.mockLedgerRepo)
	s.ctx = context.Background()
}

func (s *LedgerServiceTestSuite) TestCreateEntry_Success() {
	s.mockLedgerRepo.On("FindEntryByTransactionID", mock.Anything, "TXN-1").
		Return(nil, apperrors.ErrNotFound)
	s.mockLedgerRepo.On("SaveEntry", mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.TransactionID == "TXN-1" &&
			e.TotalPaid.IsZero() &&
			e.RemainingBalance.Equal(decimal.NewFromInt(150)) &&
			e.PaymentStatus == domain.Unpaid
	})).Return(nil)

	entry, err := s.service.CreateEntry(s.ctx, dto.CreateLedgerEntryRequest{
		TransactionID: "TXN-1",
		EntryType:     "RECEIVABLE",
		PartyName:     "Client A",
		Amount:        decimal.NewFromInt(150),
		DueDate:       time.Now().Add(72 * time.Hour),
	}, "tester")

	s.Require().NoError(err)
	s.Equal("TXN-1", entry.TransactionID)
	s.Equal(domain.Receivable, entry.EntryType)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestCreateEntry_DuplicateTransactionID() {
	existing := openEntry("TXN-1", "Client A", domain.Receivable, 100, 0)
	s.mockLedgerRepo.On("FindEntryByTransactionID", mock.Anything, "TXN-1").
		Return(&existing, nil)

	_, err := s.service.CreateEntry(s.ctx, dto.CreateLedgerEntryRequest{
		TransactionID: "TXN-1",
		EntryType:     "RECEIVABLE",
		PartyName:     "Client A",
		Amount:        decimal.NewFromInt(100),
		DueDate:       time.Now(),
	}, "tester")

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrDuplicate))
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestCreateEntry_RejectsNonPositiveAmount() {
	_, err := s.service.CreateEntry(s.ctx, dto.CreateLedgerEntryRequest{
		TransactionID: "TXN-2",
		EntryType:     "PAYABLE",
		PartyName:     "Supplier B",
		Amount:        decimal.Zero,
		DueDate:       time.Now(),
	}, "tester")

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrValidation))
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestPreviewAllocation_DistributesFIFO() {
	entries := []domain.LedgerEntry{
		openEntry("TXN-A", "Client A", domain.Receivable, 30, 0),
		openEntry("TXN-B", "Client A", domain.Receivable, 50, 0),
	}
	s.mockLedgerRepo.On("FindOpenEntriesByParty", mock.Anything, "Client A", domain.Receivable).
		Return(entries, nil)

	plans, err := s.service.PreviewAllocation(s.ctx, "Client A", domain.Receivable, decimal.NewFromInt(40))

	s.Require().NoError(err)
	s.Require().Len(plans, 2)
	s.True(plans[0].Amount.Equal(decimal.NewFromInt(30)))
	s.True(plans[1].Amount.Equal(decimal.NewFromInt(10)))
}

func (s *LedgerServiceTestSuite) TestPreviewAllocation_RejectsNonPositiveAmount() {
	_, err := s.service.PreviewAllocation(s.ctx, "Client A", domain.Receivable, decimal.Zero)

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrValidation))
	s.mockLedgerRepo.AssertNotCalled(s.T(), "FindOpenEntriesByParty", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
