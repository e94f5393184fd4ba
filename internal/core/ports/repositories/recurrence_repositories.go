package repositories

import (
	"context"
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
)

// GenerationUnit is everything the runner persists as a single atomic transaction
// for one materialized occurrence: the new debt (plus any installment schedule), the
// idempotency record, the advanced next run date and the execution-log entry.
type GenerationUnit struct {
	Recurrence   domain.Recurrence
	Debt         domain.Debt
	Installments []domain.Installment
	Record       domain.GenerationRecord
	NextRunDate  time.Time
	LogEntry     domain.ExecutionLogEntry
}

// RecurrenceReader defines read operations for recurrence data.
type RecurrenceReader interface {
	// FindRecurrenceByID retrieves a recurrence by its unique identifier.
	FindRecurrenceByID(ctx context.Context, recurrenceID string) (*domain.Recurrence, error)

	// ListRecurrencesByUser retrieves all recurrences for a user, optionally only
	// active ones.
	ListRecurrencesByUser(ctx context.Context, userID string, activeOnly bool) ([]domain.Recurrence, error)

	// ListDueRecurrences retrieves every active recurrence whose next_run_date is on
	// or before asOf and whose end_date has not passed.
	ListDueRecurrences(ctx context.Context, asOf time.Time) ([]domain.Recurrence, error)
}

// RecurrenceWriter defines write operations for recurrence data.
type RecurrenceWriter interface {
	// SaveRecurrence persists a new recurrence.
	SaveRecurrence(ctx context.Context, recurrence domain.Recurrence) error

	// UpdateRecurrence updates the mutable fields of a recurrence (description,
	// day_of_month, end_date, active flag).
	UpdateRecurrence(ctx context.Context, recurrence domain.Recurrence) error

	// PersistGeneration writes one generation unit atomically, locking the
	// recurrence row for the duration. A unique-key conflict on the occurrence
	// (recurrence_id, scheduled_date) returns apperrors.ErrConflict with nothing
	// written.
	PersistGeneration(ctx context.Context, unit GenerationUnit) error

	// AppendExecutionLog appends a log entry to a recurrence without touching
	// next_run_date, used to record failed occurrences.
	AppendExecutionLog(ctx context.Context, recurrenceID string, entry domain.ExecutionLogEntry, updatedBy string, updatedAt time.Time) error
}

// GenerationRecordReader defines read operations for generation records.
type GenerationRecordReader interface {
	// FindGenerationRecord retrieves the record for one occurrence, if present.
	FindGenerationRecord(ctx context.Context, recurrenceID string, scheduledDate time.Time) (*domain.GenerationRecord, error)

	// ListGenerationRecordsByRecurrence retrieves all records for a recurrence,
	// newest first.
	ListGenerationRecordsByRecurrence(ctx context.Context, recurrenceID string) ([]domain.GenerationRecord, error)
}

// RecurrenceRepositoryFacade combines all recurrence-related repository interfaces.
type RecurrenceRepositoryFacade interface {
	RecurrenceReader
	RecurrenceWriter
	GenerationRecordReader
}
