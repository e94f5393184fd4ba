package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
	"github.com/finman-app/finman_backend/internal/dto"
	"github.com/finman-app/finman_backend/internal/middleware"
	"github.com/finman-app/finman_backend/internal/utils/ledger"
	"github.com/finman-app/finman_backend/internal/utils/schedule"
)

// generationService is the Generation Job Runner. Each due occurrence moves through
// Checked -> Planned -> Persisted -> Logged; the persisted step is one atomic
// transaction guarded by the (recurrence, scheduled date) idempotency key, so
// concurrent triggers and retries can never duplicate a debt.
type generationService struct {
	recurrenceRepo portsrepo.RecurrenceRepositoryFacade
	storageTimeout time.Duration
	concurrency    int
}

// NewGenerationService creates a new GenerationService. Every storage call is
// bounded by storageTimeout; due recurrences are processed with at most concurrency
// parallel workers.
func NewGenerationService(recurrenceRepo portsrepo.RecurrenceRepositoryFacade, storageTimeout time.Duration, concurrency int) portssvc.GenerationSvcFacade {
	if storageTimeout <= 0 {
		storageTimeout = 10 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &generationService{
		recurrenceRepo: recurrenceRepo,
		storageTimeout: storageTimeout,
		concurrency:    concurrency,
	}
}

var _ portssvc.GenerationSvcFacade = (*generationService)(nil)

// TriggerRecurrenceCheck evaluates all active recurrences due as of asOf and runs
// the due ones. Independent recurrences run in parallel; runs of the same
// recurrence are serialized by the repository's row lock, with the idempotency key
// as the backstop.
func (s *generationService) TriggerRecurrenceCheck(ctx context.Context, asOf time.Time) (*dto.TriggerRecurrenceResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	asOfDay := schedule.Day(asOf)

	listCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	due, err := s.recurrenceRepo.ListDueRecurrences(listCtx, asOfDay)
	if err != nil {
		logger.Error("Failed to list due recurrences", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list due recurrences: %w", err)
	}

	resp := &dto.TriggerRecurrenceResponse{Evaluated: len(due)}
	if len(due) == 0 {
		return resp, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)

	for i := range due {
		recurrence := due[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := s.runRecurrence(ctx, recurrence, asOfDay)
			mu.Lock()
			switch outcome {
			case domain.ExecutionSuccess:
				resp.Generated++
			case domain.ExecutionSkipped:
				resp.Skipped++
			case domain.ExecutionFailed:
				resp.Failed++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	logger.Info("Recurrence check completed",
		slog.Time("as_of", asOfDay),
		slog.Int("evaluated", resp.Evaluated),
		slog.Int("generated", resp.Generated),
		slog.Int("skipped", resp.Skipped),
		slog.Int("failed", resp.Failed))
	return resp, nil
}

// runRecurrence drives one recurrence through the generation state machine for its
// current occurrence.
func (s *generationService) runRecurrence(ctx context.Context, recurrence domain.Recurrence, asOf time.Time) domain.ExecutionOutcome {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("recurrence_id", recurrence.RecurrenceID))

	// Checked: not due is a no-op, never an error. The occurrence being
	// materialized is the scheduled next_run_date itself.
	if !schedule.IsDue(&recurrence, asOf) {
		return domain.ExecutionSkipped
	}
	occurrence := schedule.Day(recurrence.NextRunDate)
	now := time.Now().UTC()
	history := []domain.HistoryLogEntry{{At: now, Stage: "CHECKED"}}

	// Planned: build the debt and its installment schedule entirely in memory.
	debt, installments, err := s.planOccurrence(&recurrence, occurrence, now)
	if err != nil {
		logger.Warn("Occurrence planning failed", slog.Time("occurrence", occurrence), slog.String("error", err.Error()))
		s.recordFailure(ctx, &recurrence, occurrence, err, now)
		return domain.ExecutionFailed
	}
	history = append(history, domain.HistoryLogEntry{At: time.Now().UTC(), Stage: "PLANNED"})

	record := domain.GenerationRecord{
		RecordID:      uuid.NewString(),
		RecurrenceID:  recurrence.RecurrenceID,
		ScheduledDate: occurrence,
		DebtID:        debt.DebtID,
		Status:        domain.GenerationSuccess,
		HistoryLogs: append(history,
			domain.HistoryLogEntry{At: time.Now().UTC(), Stage: "PERSISTED"},
			domain.HistoryLogEntry{At: time.Now().UTC(), Stage: "LOGGED"}),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     recurrence.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: recurrence.UserID,
		},
	}
	debtID := debt.DebtID
	unit := portsrepo.GenerationUnit{
		Recurrence:   recurrence,
		Debt:         debt,
		Installments: installments,
		Record:       record,
		NextRunDate:  schedule.NextRunAfter(&recurrence, occurrence),
		LogEntry: domain.ExecutionLogEntry{
			RunAt:   now,
			RunDate: occurrence,
			Outcome: domain.ExecutionSuccess,
			DebtID:  &debtID,
		},
	}

	// Persisted + Logged: one atomic transaction. A conflicting insert on the
	// idempotency key means another runner already handled this occurrence.
	persistCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if err := s.recurrenceRepo.PersistGeneration(persistCtx, unit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			logger.Info("Occurrence already handled", slog.Time("occurrence", occurrence))
			return domain.ExecutionSkipped
		}
		// Transient storage failure: next_run_date was not advanced, so the next
		// trigger naturally re-attempts the same occurrence.
		logger.Error("Failed to persist generation", slog.Time("occurrence", occurrence), slog.String("error", err.Error()))
		s.recordFailure(ctx, &recurrence, occurrence, err, now)
		return domain.ExecutionFailed
	}

	logger.Info("Debt generated from recurrence",
		slog.String("debt_id", debt.DebtID),
		slog.Time("occurrence", occurrence),
		slog.Time("next_run_date", unit.NextRunDate))
	return domain.ExecutionSuccess
}

// planOccurrence builds the debt (and installment schedule, when the recurrence
// asks for one) for a single occurrence. Nothing is persisted here.
func (s *generationService) planOccurrence(recurrence *domain.Recurrence, occurrence time.Time, now time.Time) (domain.Debt, []domain.Installment, error) {
	debt := domain.Debt{
		DebtID:           uuid.NewString(),
		UserID:           recurrence.UserID,
		InstrumentID:     recurrence.InstrumentID,
		Description:      recurrence.Description,
		Category:         recurrence.Category,
		Tags:             nil,
		TotalAmount:      recurrence.Amount,
		PaidAmount:       decimalZero,
		DiscountAmount:   decimalZero,
		RemainingAmount:  recurrence.Amount,
		DueDate:          occurrence,
		Status:           domain.DebtPending,
		InstallmentCount: recurrence.InstallmentCount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     recurrence.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: recurrence.UserID,
		},
	}

	if recurrence.InstallmentCount == nil || *recurrence.InstallmentCount <= 1 {
		return debt, nil, nil
	}

	plan, err := ledger.PlanInstallments(recurrence.Amount, *recurrence.InstallmentCount, occurrence)
	if err != nil {
		return domain.Debt{}, nil, err
	}
	installments := make([]domain.Installment, len(plan))
	for i, slot := range plan {
		installments[i] = domain.Installment{
			DebtID:  debt.DebtID,
			Number:  slot.Number,
			DueDate: slot.DueDate,
			Amount:  slot.Amount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     recurrence.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: recurrence.UserID,
			},
		}
	}
	// The debt matures with its last installment.
	debt.DueDate = installments[len(installments)-1].DueDate
	return debt, installments, nil
}

// recordFailure appends a FAILED entry to the recurrence's execution log without
// touching next_run_date. Log append failures are logged and swallowed: the next
// trigger re-drives the occurrence either way.
func (s *generationService) recordFailure(ctx context.Context, recurrence *domain.Recurrence, occurrence time.Time, cause error, now time.Time) {
	logCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	// Execution logs are user-visible. Transient storage failures keep their
	// driver detail in the server log only; the entry carries a stable message.
	message := cause.Error()
	if apperrors.IsTransient(cause) {
		message = apperrors.ErrInternal.Error()
	}
	entry := domain.ExecutionLogEntry{
		RunAt:   now,
		RunDate: occurrence,
		Outcome: domain.ExecutionFailed,
		Error:   message,
	}
	if err := s.recurrenceRepo.AppendExecutionLog(logCtx, recurrence.RecurrenceID, entry, recurrence.UserID, now); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to append execution log",
			slog.String("recurrence_id", recurrence.RecurrenceID),
			slog.String("error", err.Error()))
	}
}

// ListGenerationRecords returns the generation audit trail for a recurrence owned
// by userID.
func (s *generationService) ListGenerationRecords(ctx context.Context, userID, recurrenceID string) ([]domain.GenerationRecord, error) {
	recurrence, err := s.recurrenceRepo.FindRecurrenceByID(ctx, recurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recurrence %s: %w", recurrenceID, err)
	}
	if recurrence.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	records, err := s.recurrenceRepo.ListGenerationRecordsByRecurrence(ctx, recurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation records: %w", err)
	}
	return records, nil
}

// GetGenerationRecord returns the record for a single occurrence, keyed by its
// scheduled date.
func (s *generationService) GetGenerationRecord(ctx context.Context, userID, recurrenceID string, scheduledDate time.Time) (*domain.GenerationRecord, error) {
	recurrence, err := s.recurrenceRepo.FindRecurrenceByID(ctx, recurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recurrence %s: %w", recurrenceID, err)
	}
	if recurrence.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	record, err := s.recurrenceRepo.FindGenerationRecord(ctx, recurrenceID, schedule.Day(scheduledDate))
	if err != nil {
		return nil, fmt.Errorf("failed to find generation record for %s on %s: %w",
			recurrenceID, schedule.Day(scheduledDate).Format(time.DateOnly), err)
	}
	return record, nil
}
