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
)

type instrumentService struct {
	instrumentRepo portsrepo.FinancialInstrumentRepositoryFacade
}

// NewInstrumentService creates a new InstrumentService.
func NewInstrumentService(instrumentRepo portsrepo.FinancialInstrumentRepositoryFacade) portssvc.InstrumentSvcFacade {
	return &instrumentService{instrumentRepo: instrumentRepo}
}

var _ portssvc.InstrumentSvcFacade = (*instrumentService)(nil)

func (s *instrumentService) CreateInstrument(ctx context.Context, userID string, req dto.CreateInstrumentRequest) (*domain.FinancialInstrument, error) {
	now := time.Now().UTC()
	instrument := domain.FinancialInstrument{
		InstrumentID: uuid.NewString(),
		UserID:       userID,
		Name:         req.Name,
		Type:         domain.InstrumentType(req.Type),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.instrumentRepo.SaveInstrument(ctx, instrument); err != nil {
		return nil, fmt.Errorf("failed to save instrument: %w", err)
	}
	return &instrument, nil
}

func (s *instrumentService) GetInstrument(ctx context.Context, userID, instrumentID string) (*domain.FinancialInstrument, error) {
	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find instrument %s: %w", instrumentID, err)
	}
	if instrument.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return instrument, nil
}

func (s *instrumentService) ListInstruments(ctx context.Context, userID string) ([]domain.FinancialInstrument, error) {
	instruments, err := s.instrumentRepo.ListInstrumentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	return instruments, nil
}
