package services

import (
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	portsstorage "github.com/finbook/finbook_backend/internal/core/ports/storage"
	"github.com/finbook/finbook_backend/internal/utils/activitylog"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, imageStore portsstorage.ChequeImageStore, activityClient *activitylog.Client) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Journal first: the cheque orchestrator posts through it.
	container.Journal = NewJournalService(repos.JournalRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Payment = NewPaymentService(repos.PaymentRepo)
	container.Activity = NewActivityService(activityClient)

	container.Cheque = NewChequeService(
		repos.ChequeRepo,
		repos.PaymentRepo,
		repos.LedgerRepo,
		repos.TxManager,
		container.Journal,
		imageStore,
		container.Activity,
	)

	return container
}
