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

// PgxJournalRepository persists the append-only journal. There is no update
// or delete path: corrections are new entries referencing the original.
type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalEntryColumns = `entry_id, linked_payment_id, amount, entry_date, description, reversal_of,
	created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.LinkedPaymentID,
		&m.Amount,
		&m.EntryDate,
		&m.Description,
		&m.ReversalOf,
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

func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}
	query := `
		SELECT line_id, entry_id, account, side, amount
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_id;
	`
	rows, err := r.pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]domain.JournalLine)
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.Account, &m.Side, &m.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		linesByEntry[m.EntryID] = append(linesByEntry[m.EntryID], mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal line rows: %w", err)
	}
	return linesByEntry, nil
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM journal_entries WHERE entry_id = $1`, journalEntryColumns)
	m, err := scanJournalEntry(r.pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s not found", entryID))
		}
		return nil, fmt.Errorf("failed to query journal entry %s: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(*m)
	linesByEntry, err := r.findLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = linesByEntry[entryID]
	return &entry, nil
}

// FindEntriesByPaymentID retrieves all journal entries linked to a payment,
// originals and reversals alike, with their lines.
func (r *PgxJournalRepository) FindEntriesByPaymentID(ctx context.Context, paymentID string) ([]domain.JournalEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM journal_entries WHERE linked_payment_id = $1 ORDER BY created_at`, journalEntryColumns)
	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	var entryIDs []string
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(*m))
		entryIDs = append(entryIDs, m.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal entry rows: %w", err)
	}

	linesByEntry, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
	}
	return entries, nil
}

func (r *PgxJournalRepository) saveEntry(ctx context.Context, q querier, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	insertEntry := `
		INSERT INTO journal_entries (entry_id, linked_payment_id, amount, entry_date, description, reversal_of,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := q.Exec(ctx, insertEntry,
		m.EntryID, m.LinkedPaymentID, m.Amount, m.EntryDate, m.Description, m.ReversalOf,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to save journal entry %s: %w", m.EntryID, err)
	}

	insertLine := `
		INSERT INTO journal_lines (line_id, entry_id, account, side, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range entry.Lines {
		lm := mapping.ToModelJournalLine(line)
		if _, err := q.Exec(ctx, insertLine, lm.LineID, lm.EntryID, lm.Account, lm.Side, lm.Amount); err != nil {
			return fmt.Errorf("failed to save journal line %s: %w", lm.LineID, err)
		}
	}
	return nil
}

// SaveEntryInTx appends an entry and its lines inside an existing transaction.
func (r *PgxJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	return r.saveEntry(ctx, tx, entry)
}

// SaveEntry appends an entry in its own short transaction, used for the
// post-commit reversal postings.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.saveEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit journal entry", err)
	}
	return nil
}
