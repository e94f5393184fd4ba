package repositories

import (
	"context"

	"github.com/finman-app/finman_backend/internal/core/domain"
)

// FinancialInstrumentRepositoryFacade defines persistence for financial instruments.
type FinancialInstrumentRepositoryFacade interface {
	// SaveInstrument persists a new financial instrument.
	SaveInstrument(ctx context.Context, instrument domain.FinancialInstrument) error

	// FindInstrumentByID retrieves an instrument by its unique identifier.
	FindInstrumentByID(ctx context.Context, instrumentID string) (*domain.FinancialInstrument, error)

	// ListInstrumentsByUser retrieves all instruments owned by a user.
	ListInstrumentsByUser(ctx context.Context, userID string) ([]domain.FinancialInstrument, error)
}
