package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
	"github.com/finman-app/finman_backend/internal/dto"
	"github.com/finman-app/finman_backend/internal/middleware"
	"github.com/finman-app/finman_backend/internal/utils/schedule"
)

var (
	ErrDayOfMonthOutOfRange = errors.New("day of month must be between 1 and 31")
	ErrEndBeforeStart       = errors.New("end date must not be before start date")
	ErrInstrumentRequired   = errors.New("installment plans require a financial instrument")
)

// recurrenceService manages recurrence templates. All schedule sanity checks happen
// here at creation/update time so the generation runner never sees impossible dates.
type recurrenceService struct {
	recurrenceRepo portsrepo.RecurrenceRepositoryFacade
	instrumentRepo portsrepo.FinancialInstrumentRepositoryFacade
}

// NewRecurrenceService creates a new RecurrenceService.
func NewRecurrenceService(recurrenceRepo portsrepo.RecurrenceRepositoryFacade, instrumentRepo portsrepo.FinancialInstrumentRepositoryFacade) portssvc.RecurrenceSvcFacade {
	return &recurrenceService{
		recurrenceRepo: recurrenceRepo,
		instrumentRepo: instrumentRepo,
	}
}

var _ portssvc.RecurrenceSvcFacade = (*recurrenceService)(nil)

// CreateRecurrence validates and persists a new recurrence. The initial
// next_run_date is the day_of_month occurrence in the start month, or the following
// month when that day has already passed; it is never before start_date.
func (s *recurrenceService) CreateRecurrence(ctx context.Context, userID string, req dto.CreateRecurrenceRequest) (*domain.Recurrence, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrDayOfMonthOutOfRange)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: recurrence amount must be positive", apperrors.ErrValidation)
	}
	startDate := schedule.Day(req.StartDate)
	var endDate *time.Time
	if req.EndDate != nil {
		d := schedule.Day(*req.EndDate)
		if d.Before(startDate) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEndBeforeStart)
		}
		endDate = &d
	}
	if req.InstallmentCount != nil {
		if *req.InstallmentCount <= 0 {
			return nil, fmt.Errorf("%w: installment count must be positive", apperrors.ErrValidation)
		}
		if req.InstrumentID == nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrInstrumentRequired)
		}
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
	recurrence := domain.Recurrence{
		RecurrenceID:     uuid.NewString(),
		UserID:           userID,
		InstrumentID:     req.InstrumentID,
		Description:      req.Description,
		Category:         domain.ParseDebtCategory(req.Category),
		Amount:           req.Amount,
		Active:           true,
		StartDate:        startDate,
		EndDate:          endDate,
		DayOfMonth:       req.DayOfMonth,
		InstallmentCount: req.InstallmentCount,
		NextRunDate:      schedule.FirstRunDate(startDate, req.DayOfMonth),
		ExecutionLogs:    []domain.ExecutionLogEntry{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.recurrenceRepo.SaveRecurrence(ctx, recurrence); err != nil {
		logger.Error("Failed to save recurrence", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save recurrence: %w", err)
	}

	logger.Info("Recurrence created",
		slog.String("recurrence_id", recurrence.RecurrenceID),
		slog.Time("next_run_date", recurrence.NextRunDate))
	return &recurrence, nil
}

// GetRecurrence retrieves a recurrence owned by userID.
func (s *recurrenceService) GetRecurrence(ctx context.Context, userID, recurrenceID string) (*domain.Recurrence, error) {
	recurrence, err := s.recurrenceRepo.FindRecurrenceByID(ctx, recurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recurrence %s: %w", recurrenceID, err)
	}
	if recurrence.UserID != userID {
		// Obscure existence of other users' data.
		return nil, apperrors.ErrNotFound
	}
	return recurrence, nil
}

// ListRecurrences retrieves a user's recurrences.
func (s *recurrenceService) ListRecurrences(ctx context.Context, userID string, activeOnly bool) ([]domain.Recurrence, error) {
	recurrences, err := s.recurrenceRepo.ListRecurrencesByUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurrences: %w", err)
	}
	return recurrences, nil
}

// UpdateRecurrence applies partial updates: description, day_of_month, end_date and
// the active flag. next_run_date is recomputed when day_of_month changes, but never
// moved before the already scheduled occurrence's month.
func (s *recurrenceService) UpdateRecurrence(ctx context.Context, userID, recurrenceID string, req dto.UpdateRecurrenceRequest) (*domain.Recurrence, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recurrence, err := s.GetRecurrence(ctx, userID, recurrenceID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		recurrence.Description = *req.Description
	}
	if req.DayOfMonth != nil {
		if *req.DayOfMonth < 1 || *req.DayOfMonth > 31 {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrDayOfMonthOutOfRange)
		}
		recurrence.DayOfMonth = *req.DayOfMonth
		next := schedule.DateWithDayOrLast(recurrence.NextRunDate.Year(), recurrence.NextRunDate.Month(), *req.DayOfMonth)
		if !next.Before(recurrence.StartDate) {
			recurrence.NextRunDate = next
		}
	}
	if req.EndDate != nil {
		d := schedule.Day(*req.EndDate)
		if d.Before(recurrence.StartDate) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEndBeforeStart)
		}
		recurrence.EndDate = &d
	}
	if req.Active != nil {
		recurrence.Active = *req.Active
	}

	now := time.Now().UTC()
	recurrence.LastUpdatedAt = now
	recurrence.LastUpdatedBy = userID

	if err := s.recurrenceRepo.UpdateRecurrence(ctx, *recurrence); err != nil {
		logger.Error("Failed to update recurrence", slog.String("recurrence_id", recurrenceID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update recurrence: %w", err)
	}

	logger.Info("Recurrence updated", slog.String("recurrence_id", recurrenceID), slog.Bool("active", recurrence.Active))
	return recurrence, nil
}
