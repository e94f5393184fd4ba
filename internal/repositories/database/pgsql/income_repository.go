package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	"github.com/finman-app/finman_backend/internal/models"
	"github.com/finman-app/finman_backend/internal/utils/mapping"
)

const incomeColumns = `income_id, user_id, instrument_id, description, amount, receipt_date, recurring,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxIncomeRepository struct {
	db *pgxpool.Pool
}

func newPgxIncomeRepository(db *pgxpool.Pool) portsrepo.IncomeRepositoryFacade {
	return &PgxIncomeRepository{db: db}
}

var _ portsrepo.IncomeRepositoryFacade = (*PgxIncomeRepository)(nil)

func (r *PgxIncomeRepository) SaveIncome(ctx context.Context, income domain.Income) error {
	m := mapping.ToModelIncome(income)
	query := `
		INSERT INTO incomes (income_id, user_id, instrument_id, description, amount, receipt_date, recurring,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.IncomeID,
		m.UserID,
		m.InstrumentID,
		m.Description,
		m.Amount,
		m.ReceiptDate,
		m.Recurring,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save income: %w", err)
	}
	return nil
}

func (r *PgxIncomeRepository) FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE income_id = $1;`
	m, err := scanIncome(r.db.QueryRow(ctx, query, incomeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find income by ID %s: %w", incomeID, err)
	}
	domainIncome := mapping.ToDomainIncome(m)
	return &domainIncome, nil
}

func (r *PgxIncomeRepository) ListIncomesByUser(ctx context.Context, userID string) ([]domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE user_id = $1 ORDER BY receipt_date DESC;`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes for user %s: %w", userID, err)
	}
	defer rows.Close()

	incomes := []domain.Income{}
	for rows.Next() {
		m, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income row: %w", err)
		}
		incomes = append(incomes, mapping.ToDomainIncome(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income rows: %w", err)
	}
	return incomes, nil
}

func (r *PgxIncomeRepository) DeleteIncome(ctx context.Context, incomeID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM incomes WHERE income_id = $1;`, incomeID)
	if err != nil {
		return fmt.Errorf("failed to delete income %s: %w", incomeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanIncome(row pgx.Row) (models.Income, error) {
	var m models.Income
	err := row.Scan(
		&m.IncomeID,
		&m.UserID,
		&m.InstrumentID,
		&m.Description,
		&m.Amount,
		&m.ReceiptDate,
		&m.Recurring,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
