package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(dbPool),
		InstrumentRepo: newPgxInstrumentRepository(dbPool),
		DebtRepo:       newPgxDebtRepository(dbPool),
		PaymentRepo:    newPgxPaymentRepository(dbPool),
		RecurrenceRepo: newPgxRecurrenceRepository(dbPool),
		IncomeRepo:     newPgxIncomeRepository(dbPool),
	}
}
