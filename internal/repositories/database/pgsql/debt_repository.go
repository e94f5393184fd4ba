package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	"github.com/finman-app/finman_backend/internal/models"
	"github.com/finman-app/finman_backend/internal/utils/mapping"
	"github.com/finman-app/finman_backend/internal/utils/schedule"
)

const maxDebtListLimit = 200

const debtColumns = `debt_id, user_id, instrument_id, description, category, tags,
	       total_amount, paid_amount, discount_amount, remaining_amount,
	       due_date, status, installment_count,
	       created_at, created_by, last_updated_at, last_updated_by`

const installmentColumns = `debt_id, number, due_date, amount, is_paid, payment_id,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxDebtRepository struct {
	BaseRepository
}

func newPgxDebtRepository(pool *pgxpool.Pool) portsrepo.DebtRepositoryFacade {
	return &PgxDebtRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

// scanDebt reads a debt row in debtColumns order. Shared with the payment
// repository, which locks and re-reads debts inside its own transaction.
func scanDebt(row pgx.Row) (models.Debt, error) {
	var m models.Debt
	err := row.Scan(
		&m.DebtID,
		&m.UserID,
		&m.InstrumentID,
		&m.Description,
		&m.Category,
		&m.Tags,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.DiscountAmount,
		&m.RemainingAmount,
		&m.DueDate,
		&m.Status,
		&m.InstallmentCount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanInstallmentRows(rows pgx.Rows) ([]domain.Installment, error) {
	defer rows.Close()
	installments := []domain.Installment{}
	for rows.Next() {
		var m models.Installment
		if err := rows.Scan(
			&m.DebtID,
			&m.Number,
			&m.DueDate,
			&m.Amount,
			&m.IsPaid,
			&m.PaymentID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		installments = append(installments, mapping.ToDomainInstallment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment rows: %w", err)
	}
	return installments, nil
}

// insertDebt writes one debt row using the given queryer (pool or transaction).
func insertDebt(ctx context.Context, tx pgx.Tx, debt domain.Debt) error {
	m := mapping.ToModelDebt(debt)
	query := `
		INSERT INTO debts (
			debt_id, user_id, instrument_id, description, category, tags,
			total_amount, paid_amount, discount_amount, remaining_amount,
			due_date, status, installment_count,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.DebtID,
		m.UserID,
		m.InstrumentID,
		m.Description,
		m.Category,
		m.Tags,
		m.TotalAmount,
		m.PaidAmount,
		m.DiscountAmount,
		m.RemainingAmount,
		m.DueDate,
		m.Status,
		m.InstallmentCount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt %s: %w", m.DebtID, err)
	}
	return nil
}

// insertInstallments batches the installment schedule for one debt.
func insertInstallments(ctx context.Context, tx pgx.Tx, installments []domain.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	query := `
		INSERT INTO installments (debt_id, number, due_date, amount, is_paid, payment_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, inst := range installments {
		m := mapping.ToModelInstallment(inst)
		batch.Queue(query,
			m.DebtID,
			m.Number,
			m.DueDate,
			m.Amount,
			m.IsPaid,
			m.PaymentID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert installments: %w", err)
	}
	return nil
}

func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE debt_id = $1;`
	m, err := scanDebt(r.Pool.QueryRow(ctx, query, debtID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find debt by ID %s: %w", debtID, err)
	}
	domainDebt := mapping.ToDomainDebt(m)
	return &domainDebt, nil
}

func (r *PgxDebtRepository) ListDebtsByUser(ctx context.Context, userID string, statuses []domain.DebtStatus, limit int) ([]domain.Debt, error) {
	if limit <= 0 || limit > maxDebtListLimit {
		limit = maxDebtListLimit
	}

	query, args := buildDebtListQuery(userID, statuses, limit, time.Now().UTC())
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts for user %s: %w", userID, err)
	}
	defer rows.Close()

	debts := []domain.Debt{}
	for rows.Next() {
		m, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt row: %w", err)
		}
		debts = append(debts, mapping.ToDomainDebt(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debt rows: %w", err)
	}
	return debts, nil
}

// buildDebtListQuery translates status filters into SQL. OVERDUE is never stored
// in the status column, so filtering on it becomes a predicate over
// remaining_amount and due_date, matching how EffectiveStatus derives it.
func buildDebtListQuery(userID string, statuses []domain.DebtStatus, limit int, asOf time.Time) (string, []interface{}) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE user_id = $1`
	args := []interface{}{userID}

	var stored []string
	overdue := false
	for _, s := range statuses {
		if s == domain.DebtOverdue {
			overdue = true
			continue
		}
		stored = append(stored, string(s))
	}

	switch {
	case len(stored) > 0 && overdue:
		args = append(args, stored, schedule.Day(asOf))
		query += ` AND (status = ANY($2) OR (remaining_amount > 0 AND due_date < $3 AND status <> 'CANCELLED'))`
	case len(stored) > 0:
		args = append(args, stored)
		query += ` AND status = ANY($2)`
	case overdue:
		args = append(args, schedule.Day(asOf))
		query += ` AND remaining_amount > 0 AND due_date < $2 AND status <> 'CANCELLED'`
	}

	query += fmt.Sprintf(` ORDER BY due_date DESC, debt_id LIMIT $%d;`, len(args)+1)
	args = append(args, limit)
	return query, args
}

func (r *PgxDebtRepository) FindInstallmentsByDebtID(ctx context.Context, debtID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE debt_id = $1 ORDER BY number;`
	rows, err := r.Pool.Query(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments for debt %s: %w", debtID, err)
	}
	return scanInstallmentRows(rows)
}

func (r *PgxDebtRepository) SaveDebtWithInstallments(ctx context.Context, debt domain.Debt, installments []domain.Installment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertDebt(ctx, tx, debt); err != nil {
		return err
	}
	if err := insertInstallments(ctx, tx, installments); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDebtRepository) CancelDebt(ctx context.Context, debtID, cancelledBy string, cancelledAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status models.DebtStatus
	err = tx.QueryRow(ctx, `SELECT status FROM debts WHERE debt_id = $1 FOR UPDATE;`, debtID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock debt %s: %w", debtID, err)
	}

	switch domain.DebtStatus(status) {
	case domain.DebtCancelled:
		// Already cancelled, nothing to do.
		return r.Commit(ctx, tx)
	case domain.DebtPaid:
		return fmt.Errorf("%w: cannot cancel a fully paid debt", apperrors.ErrValidation)
	}

	_, err = tx.Exec(ctx, `
		UPDATE debts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE debt_id = $1;
	`, debtID, string(domain.DebtCancelled), cancelledAt, cancelledBy)
	if err != nil {
		return fmt.Errorf("failed to cancel debt %s: %w", debtID, err)
	}

	return r.Commit(ctx, tx)
}
