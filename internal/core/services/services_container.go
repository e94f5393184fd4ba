package services

import (
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
	"github.com/finman-app/finman_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.Instrument = NewInstrumentService(repos.InstrumentRepo)

	// Payment must exist before Debt: creating a debt that is already paid
	// settles it through the normal payment path.
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.DebtRepo, cfg.StorageTimeout)
	container.Debt = NewDebtService(repos.DebtRepo, repos.InstrumentRepo, container.Payment)

	container.Recurrence = NewRecurrenceService(repos.RecurrenceRepo, repos.InstrumentRepo)
	container.Generation = NewGenerationService(repos.RecurrenceRepo, cfg.StorageTimeout, cfg.GenerationConcurrency)
	container.Income = NewIncomeService(repos.IncomeRepo, repos.InstrumentRepo)

	return container
}
