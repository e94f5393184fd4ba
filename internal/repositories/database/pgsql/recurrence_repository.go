package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	"github.com/finman-app/finman_backend/internal/models"
	"github.com/finman-app/finman_backend/internal/utils/mapping"
)

const recurrenceColumns = `recurrence_id, user_id, instrument_id, description, category, amount,
	       active, start_date, end_date, day_of_month, installment_count, next_run_date, execution_logs,
	       created_at, created_by, last_updated_at, last_updated_by`

const generationRecordColumns = `record_id, recurrence_id, scheduled_date, debt_id, payment_id, status, history_logs,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxRecurrenceRepository struct {
	BaseRepository
}

func newPgxRecurrenceRepository(pool *pgxpool.Pool) portsrepo.RecurrenceRepositoryFacade {
	return &PgxRecurrenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurrenceRepositoryFacade = (*PgxRecurrenceRepository)(nil)

func scanRecurrence(row pgx.Row) (models.Recurrence, error) {
	var m models.Recurrence
	err := row.Scan(
		&m.RecurrenceID,
		&m.UserID,
		&m.InstrumentID,
		&m.Description,
		&m.Category,
		&m.Amount,
		&m.Active,
		&m.StartDate,
		&m.EndDate,
		&m.DayOfMonth,
		&m.InstallmentCount,
		&m.NextRunDate,
		&m.ExecutionLogs,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxRecurrenceRepository) FindRecurrenceByID(ctx context.Context, recurrenceID string) (*domain.Recurrence, error) {
	query := `SELECT ` + recurrenceColumns + ` FROM recurrences WHERE recurrence_id = $1;`
	m, err := scanRecurrence(r.Pool.QueryRow(ctx, query, recurrenceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurrence by ID %s: %w", recurrenceID, err)
	}
	domainRecurrence, err := mapping.ToDomainRecurrence(m)
	if err != nil {
		return nil, err
	}
	return &domainRecurrence, nil
}

func (r *PgxRecurrenceRepository) ListRecurrencesByUser(ctx context.Context, userID string, activeOnly bool) ([]domain.Recurrence, error) {
	query := `SELECT ` + recurrenceColumns + ` FROM recurrences WHERE user_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurrences for user %s: %w", userID, err)
	}
	return scanRecurrenceRows(rows)
}

func (r *PgxRecurrenceRepository) ListDueRecurrences(ctx context.Context, asOf time.Time) ([]domain.Recurrence, error) {
	query := `
		SELECT ` + recurrenceColumns + `
		FROM recurrences
		WHERE active AND next_run_date <= $1 AND (end_date IS NULL OR end_date >= next_run_date)
		ORDER BY next_run_date;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query due recurrences: %w", err)
	}
	return scanRecurrenceRows(rows)
}

func scanRecurrenceRows(rows pgx.Rows) ([]domain.Recurrence, error) {
	defer rows.Close()
	recurrences := []domain.Recurrence{}
	for rows.Next() {
		m, err := scanRecurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurrence row: %w", err)
		}
		d, err := mapping.ToDomainRecurrence(m)
		if err != nil {
			return nil, err
		}
		recurrences = append(recurrences, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurrence rows: %w", err)
	}
	return recurrences, nil
}

func (r *PgxRecurrenceRepository) SaveRecurrence(ctx context.Context, recurrence domain.Recurrence) error {
	m, err := mapping.ToModelRecurrence(recurrence)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO recurrences (
			recurrence_id, user_id, instrument_id, description, category, amount,
			active, start_date, end_date, day_of_month, installment_count, next_run_date, execution_logs,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.RecurrenceID,
		m.UserID,
		m.InstrumentID,
		m.Description,
		m.Category,
		m.Amount,
		m.Active,
		m.StartDate,
		m.EndDate,
		m.DayOfMonth,
		m.InstallmentCount,
		m.NextRunDate,
		m.ExecutionLogs,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save recurrence %s: %w", m.RecurrenceID, err)
	}
	return nil
}

func (r *PgxRecurrenceRepository) UpdateRecurrence(ctx context.Context, recurrence domain.Recurrence) error {
	query := `
		UPDATE recurrences
		SET description = $2, day_of_month = $3, end_date = $4, active = $5, next_run_date = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE recurrence_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		recurrence.RecurrenceID,
		recurrence.Description,
		recurrence.DayOfMonth,
		recurrence.EndDate,
		recurrence.Active,
		recurrence.NextRunDate,
		recurrence.LastUpdatedAt,
		recurrence.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurrence %s: %w", recurrence.RecurrenceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// PersistGeneration atomically materializes one occurrence: the debt (with any
// installment schedule), the occurrence record, the advanced next_run_date and
// the appended execution log entry. The recurrence row is locked first so
// concurrent runners serialize per recurrence; the unique key on
// (recurrence_id, scheduled_date) turns a lost race into ErrConflict.
func (r *PgxRecurrenceRepository) PersistGeneration(ctx context.Context, unit portsrepo.GenerationUnit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := persistGenerationInTx(ctx, tx, unit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// persistGenerationInTx runs the generation writes on an open transaction. The
// referential order matters: the debt row must precede the generation record
// and the installments that point at it.
func persistGenerationInTx(ctx context.Context, tx pgx.Tx, unit portsrepo.GenerationUnit) error {
	var nextRun time.Time
	err := tx.QueryRow(ctx, `SELECT next_run_date FROM recurrences WHERE recurrence_id = $1 FOR UPDATE;`,
		unit.Recurrence.RecurrenceID).Scan(&nextRun)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock recurrence %s: %w", unit.Recurrence.RecurrenceID, err)
	}

	// Another runner advanced this recurrence past our occurrence while we
	// were planning it.
	if nextRun.After(unit.Record.ScheduledDate) {
		return apperrors.ErrConflict
	}

	// The debt must exist before the generation record that references it.
	if err := insertDebt(ctx, tx, unit.Debt); err != nil {
		return err
	}
	if err := insertInstallments(ctx, tx, unit.Installments); err != nil {
		return err
	}

	modelRecord, err := mapping.ToModelGenerationRecord(unit.Record)
	if err != nil {
		return err
	}
	recordQuery := `
		INSERT INTO generation_records (record_id, recurrence_id, scheduled_date, debt_id, payment_id, status, history_logs,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, recordQuery,
		modelRecord.RecordID,
		modelRecord.RecurrenceID,
		modelRecord.ScheduledDate,
		modelRecord.DebtID,
		modelRecord.PaymentID,
		modelRecord.Status,
		modelRecord.HistoryLogs,
		modelRecord.CreatedAt,
		modelRecord.CreatedBy,
		modelRecord.LastUpdatedAt,
		modelRecord.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// A conflicting occurrence rolls back the debt inserted above with the
		// rest of the transaction.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to insert generation record for recurrence %s: %w", modelRecord.RecurrenceID, err)
	}

	rawEntry, err := json.Marshal(unit.LogEntry)
	if err != nil {
		return fmt.Errorf("failed to marshal execution log entry: %w", err)
	}
	_, err = tx.Exec(ctx, `
		UPDATE recurrences
		SET next_run_date = $2,
		    execution_logs = execution_logs || $3::jsonb,
		    last_updated_at = $4, last_updated_by = $5
		WHERE recurrence_id = $1;
	`, unit.Recurrence.RecurrenceID, unit.NextRunDate, rawEntry, unit.LogEntry.RunAt, unit.Debt.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to advance recurrence %s: %w", unit.Recurrence.RecurrenceID, err)
	}

	return nil
}

func (r *PgxRecurrenceRepository) AppendExecutionLog(ctx context.Context, recurrenceID string, entry domain.ExecutionLogEntry, updatedBy string, updatedAt time.Time) error {
	rawEntry, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal execution log entry: %w", err)
	}
	tag, err := r.Pool.Exec(ctx, `
		UPDATE recurrences
		SET execution_logs = execution_logs || $2::jsonb,
		    last_updated_at = $3, last_updated_by = $4
		WHERE recurrence_id = $1;
	`, recurrenceID, rawEntry, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to append execution log for recurrence %s: %w", recurrenceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRecurrenceRepository) FindGenerationRecord(ctx context.Context, recurrenceID string, scheduledDate time.Time) (*domain.GenerationRecord, error) {
	query := `SELECT ` + generationRecordColumns + ` FROM generation_records WHERE recurrence_id = $1 AND scheduled_date = $2;`
	m, err := scanGenerationRecord(r.Pool.QueryRow(ctx, query, recurrenceID, scheduledDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find generation record for recurrence %s: %w", recurrenceID, err)
	}
	record, err := mapping.ToDomainGenerationRecord(m)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PgxRecurrenceRepository) ListGenerationRecordsByRecurrence(ctx context.Context, recurrenceID string) ([]domain.GenerationRecord, error) {
	query := `SELECT ` + generationRecordColumns + ` FROM generation_records WHERE recurrence_id = $1 ORDER BY scheduled_date DESC;`
	rows, err := r.Pool.Query(ctx, query, recurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation records for recurrence %s: %w", recurrenceID, err)
	}
	defer rows.Close()

	records := []domain.GenerationRecord{}
	for rows.Next() {
		m, err := scanGenerationRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation record row: %w", err)
		}
		record, err := mapping.ToDomainGenerationRecord(m)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generation record rows: %w", err)
	}
	return records, nil
}

func scanGenerationRecord(row pgx.Row) (models.GenerationRecord, error) {
	var m models.GenerationRecord
	err := row.Scan(
		&m.RecordID,
		&m.RecurrenceID,
		&m.ScheduledDate,
		&m.DebtID,
		&m.PaymentID,
		&m.Status,
		&m.HistoryLogs,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
