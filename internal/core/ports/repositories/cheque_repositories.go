package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ChequeListFilter narrows ListCheques results. Zero values mean "any".
type ChequeListFilter struct {
	Status    domain.ChequeStatus
	Direction domain.ChequeDirection
	PartyName string
}

// ChequeReader defines read operations for cheque data.
type ChequeReader interface {
	// FindChequeByID retrieves a cheque by its unique identifier.
	FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error)

	// FindChequeByIDForUpdate retrieves a cheque inside the given transaction
	// with a row lock, serializing concurrent lifecycle events on the same
	// cheque.
	FindChequeByIDForUpdate(ctx context.Context, tx pgx.Tx, chequeID string) (*domain.Cheque, error)

	// ListCheques retrieves a filtered page of cheques using token-based
	// pagination, ordered by due date descending.
	ListCheques(ctx context.Context, filter ChequeListFilter, limit int, nextToken *string) ([]domain.Cheque, *string, error)
}

// ChequeWriter defines write operations for cheque data.
type ChequeWriter interface {
	// SaveCheque inserts a new cheque.
	SaveCheque(ctx context.Context, cheque domain.Cheque) error

	// SaveChequeInTx inserts a new cheque as part of an existing transaction
	// (used for the synthetic outgoing cheque an endorsement creates).
	SaveChequeInTx(ctx context.Context, tx pgx.Tx, cheque domain.Cheque) error

	// UpdateCheque updates all mutable cheque fields.
	UpdateCheque(ctx context.Context, cheque domain.Cheque) error

	// UpdateChequeInTx updates a cheque as part of an existing transaction.
	UpdateChequeInTx(ctx context.Context, tx pgx.Tx, cheque domain.Cheque) error

	// DeleteChequeInTx removes a cheque as part of an existing transaction.
	DeleteChequeInTx(ctx context.Context, tx pgx.Tx, chequeID string) error
}

// ChequeRepositoryFacade combines all cheque repository interfaces.
type ChequeRepositoryFacade interface {
	ChequeReader
	ChequeWriter
}
