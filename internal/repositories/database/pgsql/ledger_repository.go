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
)

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// newPgxLedgerRepository creates a new repository for AR/AP ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{pool: pool}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `entry_id, transaction_id, entry_type, party_name, description, amount,
	total_paid, remaining_balance, payment_status, due_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.TransactionID,
		&m.EntryType,
		&m.PartyName,
		&m.Description,
		&m.Amount,
		&m.TotalPaid,
		&m.RemainingBalance,
		&m.PaymentStatus,
		&m.DueDate,
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

func (r *PgxLedgerRepository) findEntryByTransactionID(ctx context.Context, q querier, transactionID string, forUpdate bool) (*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE transaction_id = $1`, ledgerColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanLedgerEntry(q.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry for transaction %s not found", transactionID))
		}
		return nil, fmt.Errorf("failed to query ledger entry for transaction %s: %w", transactionID, err)
	}
	entry := mapping.ToDomainLedgerEntry(*m)
	return &entry, nil
}

// FindEntryByTransactionID retrieves a ledger entry by its business key.
func (r *PgxLedgerRepository) FindEntryByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	return r.findEntryByTransactionID(ctx, r.pool, transactionID, false)
}

// FindEntryByTransactionIDForUpdate retrieves and locks a ledger entry so its
// balance can be updated safely.
func (r *PgxLedgerRepository) FindEntryByTransactionIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.LedgerEntry, error) {
	return r.findEntryByTransactionID(ctx, tx, transactionID, true)
}

func (r *PgxLedgerRepository) findOpenEntriesByParty(ctx context.Context, q querier, partyName string, entryType domain.LedgerEntryType, forUpdate bool) ([]domain.LedgerEntry, error) {
	// Oldest due date first: the FIFO engine depends on this order.
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries
		WHERE party_name = $1 AND entry_type = $2 AND payment_status IN ('UNPAID', 'PARTIAL')
		ORDER BY due_date ASC, created_at ASC`, ledgerColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, partyName, string(entryType))
	if err != nil {
		return nil, fmt.Errorf("failed to query open ledger entries for %s: %w", partyName, err)
	}
	defer rows.Close()

	var results []models.LedgerEntry
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading ledger entry rows: %w", err)
	}
	return mapping.ToDomainLedgerEntrySlice(results), nil
}

// FindOpenEntriesByParty retrieves a party's unpaid and partially paid
// entries of one type, oldest due date first.
func (r *PgxLedgerRepository) FindOpenEntriesByParty(ctx context.Context, partyName string, entryType domain.LedgerEntryType) ([]domain.LedgerEntry, error) {
	return r.findOpenEntriesByParty(ctx, r.pool, partyName, entryType, false)
}

// FindOpenEntriesByPartyForUpdate is the row-locked variant used when
// allocations are about to be applied.
func (r *PgxLedgerRepository) FindOpenEntriesByPartyForUpdate(ctx context.Context, tx pgx.Tx, partyName string, entryType domain.LedgerEntryType) ([]domain.LedgerEntry, error) {
	return r.findOpenEntriesByParty(ctx, tx, partyName, entryType, true)
}

// SaveEntry inserts a new ledger entry.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (entry_id, transaction_id, entry_type, party_name, description, amount,
			total_paid, remaining_balance, payment_status, due_date,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.pool.Exec(ctx, query,
		m.EntryID, m.TransactionID, m.EntryType, m.PartyName, m.Description, m.Amount,
		m.TotalPaid, m.RemainingBalance, m.PaymentStatus, m.DueDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ledger entry for transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

// UpdateEntryBalancesInTx persists recomputed balance fields. Amount and the
// descriptive fields are deliberately not touched here.
func (r *PgxLedgerRepository) UpdateEntryBalancesInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		UPDATE ledger_entries
		SET total_paid = $2, remaining_balance = $3, payment_status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE transaction_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.TransactionID, m.TotalPaid, m.RemainingBalance, m.PaymentStatus, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update balances for transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("ledger entry for transaction %s not found for update", m.TransactionID))
	}
	return nil
}
