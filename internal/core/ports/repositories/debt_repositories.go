package repositories

import (
	"context"
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
)

// DebtReader defines read operations for debt data.
type DebtReader interface {
	// FindDebtByID retrieves a debt by its unique identifier.
	FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error)

	// ListDebtsByUser retrieves debts for a user, optionally filtered by stored
	// status, newest due date first. Limit is capped by the repository.
	ListDebtsByUser(ctx context.Context, userID string, statuses []domain.DebtStatus, limit int) ([]domain.Debt, error)
}

// DebtWriter defines write operations for debt data.
type DebtWriter interface {
	// SaveDebtWithInstallments persists a debt and its installment schedule in a
	// single transaction.
	SaveDebtWithInstallments(ctx context.Context, debt domain.Debt, installments []domain.Installment) error

	// CancelDebt marks a debt CANCELLED. Fails with apperrors.ErrValidation when
	// the debt is already fully paid.
	CancelDebt(ctx context.Context, debtID, cancelledBy string, cancelledAt time.Time) error
}

// InstallmentReader defines read operations for installment data.
type InstallmentReader interface {
	// FindInstallmentsByDebtID retrieves a debt's installments ordered by number.
	FindInstallmentsByDebtID(ctx context.Context, debtID string) ([]domain.Installment, error)
}

// DebtRepositoryFacade combines all debt-related repository interfaces.
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
	InstallmentReader
}
