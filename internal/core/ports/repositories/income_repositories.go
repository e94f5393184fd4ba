package repositories

import (
	"context"

	"github.com/finman-app/finman_backend/internal/core/domain"
)

// IncomeRepositoryFacade defines persistence for incomes.
type IncomeRepositoryFacade interface {
	// SaveIncome persists a new income.
	SaveIncome(ctx context.Context, income domain.Income) error

	// FindIncomeByID retrieves an income by its unique identifier.
	FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error)

	// ListIncomesByUser retrieves all incomes for a user, newest receipt first.
	ListIncomesByUser(ctx context.Context, userID string) ([]domain.Income, error)

	// DeleteIncome removes an income.
	DeleteIncome(ctx context.Context, incomeID string) error
}
