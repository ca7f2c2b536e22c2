package pgsql

import (
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ChequeRepo:  newPgxChequeRepository(dbPool),
		PaymentRepo: newPgxPaymentRepository(dbPool),
		LedgerRepo:  newPgxLedgerRepository(dbPool),
		JournalRepo: newPgxJournalRepository(dbPool),
		TxManager:   &BaseRepository{Pool: dbPool},
	}
}
