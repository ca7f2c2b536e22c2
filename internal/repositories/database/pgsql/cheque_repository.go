package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/finbook/finbook_backend/internal/models"
	"github.com/finbook/finbook_backend/internal/utils/mapping"
	"github.com/finbook/finbook_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxChequeRepository struct {
	pool *pgxpool.Pool
}

// newPgxChequeRepository creates a new repository for cheque data.
func newPgxChequeRepository(pool *pgxpool.Pool) portsrepo.ChequeRepositoryFacade {
	return &PgxChequeRepository{pool: pool}
}

var _ portsrepo.ChequeRepositoryFacade = (*PgxChequeRepository)(nil)

const chequeColumns = `cheque_id, cheque_number, direction, kind, status, amount, party_name, bank_name,
	due_date, cleared_date, notes, image_path, linked_transaction_id, linked_payment_id,
	paid_transaction_ids, endorsed_to, endorsed_date, endorsed_to_outgoing_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCheque(row pgx.Row) (*models.Cheque, error) {
	var m models.Cheque
	err := row.Scan(
		&m.ChequeID,
		&m.ChequeNumber,
		&m.Direction,
		&m.Kind,
		&m.Status,
		&m.Amount,
		&m.PartyName,
		&m.BankName,
		&m.DueDate,
		&m.ClearedDate,
		&m.Notes,
		&m.ImagePath,
		&m.LinkedTransactionID,
		&m.LinkedPaymentID,
		&m.PaidTransactionIDs,
		&m.EndorsedTo,
		&m.EndorsedDate,
		&m.EndorsedToOutgoingID,
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

func (r *PgxChequeRepository) findChequeByID(ctx context.Context, q querier, chequeID string, forUpdate bool) (*domain.Cheque, error) {
	query := fmt.Sprintf(`SELECT %s FROM cheques WHERE cheque_id = $1`, chequeColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanCheque(q.QueryRow(ctx, query, chequeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("cheque %s not found", chequeID))
		}
		return nil, fmt.Errorf("failed to query cheque %s: %w", chequeID, err)
	}
	cheque := mapping.ToDomainCheque(*m)
	return &cheque, nil
}

// FindChequeByID retrieves a cheque by its ID.
func (r *PgxChequeRepository) FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	return r.findChequeByID(ctx, r.pool, chequeID, false)
}

// FindChequeByIDForUpdate retrieves a cheque with a row lock inside tx.
// Concurrent lifecycle commands on the same cheque serialize here.
func (r *PgxChequeRepository) FindChequeByIDForUpdate(ctx context.Context, tx pgx.Tx, chequeID string) (*domain.Cheque, error) {
	return r.findChequeByID(ctx, tx, chequeID, true)
}

// ListCheques retrieves a filtered page of cheques ordered by due date
// descending, using token-based pagination.
func (r *PgxChequeRepository) ListCheques(ctx context.Context, filter portsrepo.ChequeListFilter, limit int, nextToken *string) ([]domain.Cheque, *string, error) {
	var conditions []string
	var args []any
	argPos := 1

	addCondition := func(clause string, value any) {
		conditions = append(conditions, fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.Status != "" {
		addCondition("status = $%d", string(filter.Status))
	}
	if filter.Direction != "" {
		addCondition("direction = $%d", string(filter.Direction))
	}
	if filter.PartyName != "" {
		addCondition("party_name = $%d", filter.PartyName)
	}

	if nextToken != nil && *nextToken != "" {
		lastDueDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		conditions = append(conditions, fmt.Sprintf("(due_date, created_at) < ($%d, $%d)", argPos, argPos+1))
		args = append(args, lastDueDate, lastCreatedAt)
		argPos += 2
	}

	query := fmt.Sprintf(`SELECT %s FROM cheques`, chequeColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1
	query += fmt.Sprintf(" ORDER BY due_date DESC, created_at DESC LIMIT $%d", argPos)
	args = append(args, fetchLimit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list cheques: %w", err)
	}
	defer rows.Close()

	var results []models.Cheque
	for rows.Next() {
		m, err := scanCheque(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan cheque row: %w", err)
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading cheque rows: %w", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		results = results[:limit]
		last := results[len(results)-1]
		token := pagination.EncodeToken(last.DueDate, last.CreatedAt)
		nextTokenVal = &token
	}

	cheques := make([]domain.Cheque, len(results))
	for i, m := range results {
		cheques[i] = mapping.ToDomainCheque(m)
	}
	return cheques, nextTokenVal, nil
}

const insertChequeSQL = `
	INSERT INTO cheques (cheque_id, cheque_number, direction, kind, status, amount, party_name, bank_name,
		due_date, cleared_date, notes, image_path, linked_transaction_id, linked_payment_id,
		paid_transaction_ids, endorsed_to, endorsed_date, endorsed_to_outgoing_id,
		created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
`

func (r *PgxChequeRepository) saveCheque(ctx context.Context, q querier, cheque domain.Cheque) error {
	m := mapping.ToModelCheque(cheque)
	_, err := q.Exec(ctx, insertChequeSQL,
		m.ChequeID, m.ChequeNumber, m.Direction, m.Kind, m.Status, m.Amount, m.PartyName, m.BankName,
		m.DueDate, m.ClearedDate, m.Notes, m.ImagePath, m.LinkedTransactionID, m.LinkedPaymentID,
		m.PaidTransactionIDs, m.EndorsedTo, m.EndorsedDate, m.EndorsedToOutgoingID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cheque with ID %s already exists", apperrors.ErrDuplicate, m.ChequeID)
		}
		return fmt.Errorf("failed to save cheque %s: %w", m.ChequeID, err)
	}
	return nil
}

// SaveCheque inserts a new cheque.
func (r *PgxChequeRepository) SaveCheque(ctx context.Context, cheque domain.Cheque) error {
	return r.saveCheque(ctx, r.pool, cheque)
}

// SaveChequeInTx inserts a new cheque as part of an existing transaction.
func (r *PgxChequeRepository) SaveChequeInTx(ctx context.Context, tx pgx.Tx, cheque domain.Cheque) error {
	return r.saveCheque(ctx, tx, cheque)
}

const updateChequeSQL = `
	UPDATE cheques
	SET cheque_number = $2, direction = $3, kind = $4, status = $5, amount = $6, party_name = $7,
		bank_name = $8, due_date = $9, cleared_date = $10, notes = $11, image_path = $12,
		linked_transaction_id = $13, linked_payment_id = $14, paid_transaction_ids = $15,
		endorsed_to = $16, endorsed_date = $17, endorsed_to_outgoing_id = $18,
		last_updated_at = $19, last_updated_by = $20
	WHERE cheque_id = $1;
`

func (r *PgxChequeRepository) updateCheque(ctx context.Context, q querier, cheque domain.Cheque) error {
	m := mapping.ToModelCheque(cheque)
	tag, err := q.Exec(ctx, updateChequeSQL,
		m.ChequeID, m.ChequeNumber, m.Direction, m.Kind, m.Status, m.Amount, m.PartyName,
		m.BankName, m.DueDate, m.ClearedDate, m.Notes, m.ImagePath,
		m.LinkedTransactionID, m.LinkedPaymentID, m.PaidTransactionIDs,
		m.EndorsedTo, m.EndorsedDate, m.EndorsedToOutgoingID,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", m.ChequeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("cheque %s not found for update", m.ChequeID))
	}
	return nil
}

// UpdateCheque updates all mutable cheque fields.
func (r *PgxChequeRepository) UpdateCheque(ctx context.Context, cheque domain.Cheque) error {
	return r.updateCheque(ctx, r.pool, cheque)
}

// UpdateChequeInTx updates a cheque as part of an existing transaction.
func (r *PgxChequeRepository) UpdateChequeInTx(ctx context.Context, tx pgx.Tx, cheque domain.Cheque) error {
	return r.updateCheque(ctx, tx, cheque)
}

// DeleteChequeInTx removes a cheque as part of an existing transaction.
func (r *PgxChequeRepository) DeleteChequeInTx(ctx context.Context, tx pgx.Tx, chequeID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM cheques WHERE cheque_id = $1`, chequeID)
	if err != nil {
		return fmt.Errorf("failed to delete cheque %s: %w", chequeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("cheque %s not found for delete", chequeID))
	}
	return nil
}
