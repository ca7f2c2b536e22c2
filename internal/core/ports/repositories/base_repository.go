package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager hands out the storage layer's atomic unit. Every
// money-affecting cheque operation runs its reads and writes on one
// transaction obtained here, so the batch either fully applies or nothing
// does.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction; rolling back an already-committed
	// transaction is a no-op.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
