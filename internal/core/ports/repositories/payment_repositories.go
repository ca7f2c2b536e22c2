package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payment and allocation data.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment with its allocations.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentByChequeIDInTx retrieves the payment directly linked to a
	// cheque, locked for the duration of the transaction.
	FindPaymentByChequeIDInTx(ctx context.Context, tx pgx.Tx, chequeID string) (*domain.Payment, error)

	// FindPaymentByLegacyMatchInTx is the fallback lookup for rows predating
	// the explicit cheque link: match by linked transaction, method and amount.
	FindPaymentByLegacyMatchInTx(ctx context.Context, tx pgx.Tx, transactionID string, method string, amount decimal.Decimal) (*domain.Payment, error)

	// FindPaymentsByNotesReferenceInTx finds payments whose free-text notes
	// mention a cheque number. Legacy correlation only; new payments carry
	// LinkedChequeID.
	FindPaymentsByNotesReferenceInTx(ctx context.Context, tx pgx.Tx, chequeNumber string) ([]domain.Payment, error)

	// FindPaymentsByEndorsementChequeIDInTx finds the bookkeeping payments an
	// endorsement created, locked for the duration of the transaction.
	FindPaymentsByEndorsementChequeIDInTx(ctx context.Context, tx pgx.Tx, chequeID string) ([]domain.Payment, error)

	// FindAllocationsByPaymentIDInTx retrieves a payment's allocation rows.
	FindAllocationsByPaymentIDInTx(ctx context.Context, tx pgx.Tx, paymentID string) ([]domain.Allocation, error)
}

// PaymentWriter defines write operations for payment and allocation data.
// Payments are only ever created or deleted inside the orchestrator's atomic
// unit, so every writer method takes a transaction.
type PaymentWriter interface {
	// SavePaymentInTx inserts a payment together with its allocation rows.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment, allocations []domain.Allocation) error

	// DeletePaymentInTx removes a payment and all of its allocation rows.
	DeletePaymentInTx(ctx context.Context, tx pgx.Tx, paymentID string) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
