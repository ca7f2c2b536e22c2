package services

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/dto"
)

// ChequeSvcFacade is the lifecycle orchestrator contract: one operation per
// cheque lifecycle command. Every money-affecting operation applies its
// cheque update, payment write, ledger balance update and journal entry as a
// single atomic unit; on any failure nothing is persisted.
type ChequeSvcFacade interface {
	// SubmitCheque creates a cheque, or edits one. An edit whose requested
	// status differs from the stored status routes through the corresponding
	// lifecycle command.
	SubmitCheque(ctx context.Context, req dto.SubmitChequeRequest, actor string) (*domain.Cheque, error)

	// CashCheque transitions a cheque to CASHED, creating its payment,
	// settling its linked ledger entry and posting the journal entry.
	CashCheque(ctx context.Context, chequeID string, req dto.CashChequeRequest, actor string) error

	// CashChequeWithAllocation cashes a cheque against several open
	// transactions at once, distributing the amount FIFO or per the caller's
	// manual allocations.
	CashChequeWithAllocation(ctx context.Context, chequeID string, req dto.CashWithAllocationRequest, actor string) (*dto.CashWithAllocationResponse, error)

	// BounceCheque marks a cheque BOUNCED, first reversing its cash effects
	// when it was CASHED.
	BounceCheque(ctx context.Context, chequeID string, actor string) error

	// EndorseCheque re-issues an incoming PENDING cheque to a new holder,
	// creating the synthetic outgoing cheque and the two bookkeeping-only
	// payments.
	EndorseCheque(ctx context.Context, chequeID string, req dto.EndorseChequeRequest, actor string) error

	// CancelEndorsement undoes an endorsement, deleting the synthetic
	// outgoing cheque and both bookkeeping payments and restoring balances.
	CancelEndorsement(ctx context.Context, chequeID string, actor string) error

	// DeleteCheque hard-deletes a PENDING cheque together with any legacy
	// payments referencing its number.
	DeleteCheque(ctx context.Context, chequeID string, actor string) error

	// GetChequeByID retrieves a single cheque.
	GetChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error)

	// ListCheques retrieves a filtered, token-paginated page of cheques.
	ListCheques(ctx context.Context, params dto.ListChequesParams) (*dto.ListChequesResponse, error)
}

// PaymentSvcFacade exposes the read side of payments.
type PaymentSvcFacade interface {
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
}
