package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
	"github.com/finman-app/finman_backend/internal/dto"
	"github.com/finman-app/finman_backend/internal/utils/schedule"
)

type incomeService struct {
	incomeRepo     portsrepo.IncomeRepositoryFacade
	instrumentRepo portsrepo.FinancialInstrumentRepositoryFacade
}

// NewIncomeService creates a new IncomeService.
func NewIncomeService(incomeRepo portsrepo.IncomeRepositoryFacade, instrumentRepo portsrepo.FinancialInstrumentRepositoryFacade) portssvc.IncomeSvcFacade {
	return &incomeService{incomeRepo: incomeRepo, instrumentRepo: instrumentRepo}
}

var _ portssvc.IncomeSvcFacade = (*incomeService)(nil)

func (s *incomeService) CreateIncome(ctx context.Context, userID string, req dto.CreateIncomeRequest) (*domain.Income, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: income amount must be positive", apperrors.ErrValidation)
	}
	if req.InstrumentID != nil {
		instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, *req.InstrumentID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify instrument %s: %w", *req.InstrumentID, err)
		}
		if instrument.UserID != userID {
			return nil, apperrors.ErrNotFound
		}
	}

	now := time.Now().UTC()
	income := domain.Income{
		IncomeID:     uuid.NewString(),
		UserID:       userID,
		InstrumentID: req.InstrumentID,
		Description:  req.Description,
		Amount:       req.Amount,
		ReceiptDate:  schedule.Day(req.ReceiptDate),
		Recurring:    req.Recurring,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.incomeRepo.SaveIncome(ctx, income); err != nil {
		return nil, fmt.Errorf("failed to save income: %w", err)
	}
	return &income, nil
}

func (s *incomeService) ListIncomes(ctx context.Context, userID string) ([]domain.Income, error) {
	incomes, err := s.incomeRepo.ListIncomesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	return incomes, nil
}

func (s *incomeService) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	income, err := s.incomeRepo.FindIncomeByID(ctx, incomeID)
	if err != nil {
		return fmt.Errorf("failed to find income %s: %w", incomeID, err)
	}
	if income.UserID != userID {
		return apperrors.ErrNotFound
	}
	if err := s.incomeRepo.DeleteIncome(ctx, incomeID); err != nil {
		return fmt.Errorf("failed to delete income %s: %w", incomeID, err)
	}
	return nil
}
