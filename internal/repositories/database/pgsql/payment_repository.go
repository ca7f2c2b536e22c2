package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/finbook/finbook_backend/internal/models"
	"github.com/finbook/finbook_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPaymentRepository struct {
	pool *pgxpool.Pool
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{pool: pool}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, direction, method, amount, payment_date, party_name, notes,
	linked_cheque_id, linked_transaction_id, is_endorsement, no_cash_movement, endorsement_cheque_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.Direction,
		&m.Method,
		&m.Amount,
		&m.PaymentDate,
		&m.PartyName,
		&m.Notes,
		&m.LinkedChequeID,
		&m.LinkedTransactionID,
		&m.IsEndorsement,
		&m.NoCashMovement,
		&m.EndorsementChequeID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectPayments(rows pgx.Rows) ([]domain.Payment, error) {
	defer rows.Close()
	var results []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		results = append(results, mapping.ToDomainPayment(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading payment rows: %w", err)
	}
	return results, nil
}

// FindPaymentByID retrieves a payment with its allocations.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE payment_id = $1`, paymentColumns)
	m, err := scanPayment(r.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment %s not found", paymentID))
		}
		return nil, fmt.Errorf("failed to query payment %s: %w", paymentID, err)
	}

	payment := mapping.ToDomainPayment(*m)
	allocations, err := r.findAllocations(ctx, r.pool, paymentID)
	if err != nil {
		return nil, err
	}
	payment.Allocations = allocations
	return &payment, nil
}

// FindPaymentByChequeIDInTx retrieves the payment linked to a cheque, locked
// for the duration of the transaction.
func (r *PgxPaymentRepository) FindPaymentByChequeIDInTx(ctx context.Context, tx pgx.Tx, chequeID string) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE linked_cheque_id = $1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE`, paymentColumns)
	m, err := scanPayment(tx.QueryRow(ctx, query, chequeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment for cheque %s not found", chequeID))
		}
		return nil, fmt.Errorf("failed to query payment for cheque %s: %w", chequeID, err)
	}
	payment := mapping.ToDomainPayment(*m)
	return &payment, nil
}

// FindPaymentByLegacyMatchInTx is the fallback lookup for rows predating the
// explicit cheque link: match by linked transaction, method and amount.
func (r *PgxPaymentRepository) FindPaymentByLegacyMatchInTx(ctx context.Context, tx pgx.Tx, transactionID string, method string, amount decimal.Decimal) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments
		WHERE linked_transaction_id = $1 AND method = $2 AND amount = $3
		ORDER BY created_at DESC LIMIT 1 FOR UPDATE`, paymentColumns)
	m, err := scanPayment(tx.QueryRow(ctx, query, transactionID, method, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no payment matches transaction %s, method %s, amount %s", transactionID, method, amount))
		}
		return nil, fmt.Errorf("failed legacy payment lookup for transaction %s: %w", transactionID, err)
	}
	payment := mapping.ToDomainPayment(*m)
	return &payment, nil
}

// FindPaymentsByNotesReferenceInTx finds payments whose free-text notes
// mention a cheque number.
func (r *PgxPaymentRepository) FindPaymentsByNotesReferenceInTx(ctx context.Context, tx pgx.Tx, chequeNumber string) ([]domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE notes ILIKE '%%' || $1 || '%%' FOR UPDATE`, paymentColumns)
	rows, err := tx.Query(ctx, query, chequeNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments referencing cheque %s: %w", chequeNumber, err)
	}
	return collectPayments(rows)
}

// FindPaymentsByEndorsementChequeIDInTx finds the bookkeeping payments an
// endorsement created, locked for the duration of the transaction.
func (r *PgxPaymentRepository) FindPaymentsByEndorsementChequeIDInTx(ctx context.Context, tx pgx.Tx, chequeID string) ([]domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE endorsement_cheque_id = $1 ORDER BY created_at FOR UPDATE`, paymentColumns)
	rows, err := tx.Query(ctx, query, chequeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query endorsement payments for cheque %s: %w", chequeID, err)
	}
	return collectPayments(rows)
}

const allocationColumns = `allocation_id, payment_id, transaction_id, amount, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxPaymentRepository) findAllocations(ctx context.Context, q querier, paymentID string) ([]domain.Allocation, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_allocations WHERE payment_id = $1 ORDER BY created_at`, allocationColumns)
	rows, err := q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	var results []models.PaymentAllocation
	for rows.Next() {
		var m models.PaymentAllocation
		if err := rows.Scan(&m.AllocationID, &m.PaymentID, &m.TransactionID, &m.Amount,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading allocation rows: %w", err)
	}
	return mapping.ToDomainAllocationSlice(results), nil
}

// FindAllocationsByPaymentIDInTx retrieves a payment's allocation rows.
func (r *PgxPaymentRepository) FindAllocationsByPaymentIDInTx(ctx context.Context, tx pgx.Tx, paymentID string) ([]domain.Allocation, error) {
	return r.findAllocations(ctx, tx, paymentID)
}

// SavePaymentInTx inserts a payment together with its allocation rows.
func (r *PgxPaymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment, allocations []domain.Allocation) error {
	m := mapping.ToModelPayment(payment)
	insertPayment := `
		INSERT INTO payments (payment_id, direction, method, amount, payment_date, party_name, notes,
			linked_cheque_id, linked_transaction_id, is_endorsement, no_cash_movement, endorsement_cheque_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, insertPayment,
		m.PaymentID, m.Direction, m.Method, m.Amount, m.PaymentDate, m.PartyName, m.Notes,
		m.LinkedChequeID, m.LinkedTransactionID, m.IsEndorsement, m.NoCashMovement, m.EndorsementChequeID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment with ID %s already exists", apperrors.ErrDuplicate, m.PaymentID)
		}
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}

	insertAllocation := `
		INSERT INTO payment_allocations (allocation_id, payment_id, transaction_id, amount,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, alloc := range allocations {
		am := mapping.ToModelAllocation(alloc)
		if _, err := tx.Exec(ctx, insertAllocation,
			am.AllocationID, am.PaymentID, am.TransactionID, am.Amount,
			am.CreatedAt, am.CreatedBy, am.LastUpdatedAt, am.LastUpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to save allocation %s: %w", am.AllocationID, err)
		}
	}
	return nil
}

// DeletePaymentInTx removes a payment and all of its allocation rows.
func (r *PgxPaymentRepository) DeletePaymentInTx(ctx context.Context, tx pgx.Tx, paymentID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM payment_allocations WHERE payment_id = $1`, paymentID); err != nil {
		return fmt.Errorf("failed to delete allocations for payment %s: %w", paymentID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("payment %s not found for delete", paymentID))
	}
	return nil
}
