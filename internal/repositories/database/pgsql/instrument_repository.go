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

type PgxInstrumentRepository struct {
	db *pgxpool.Pool
}

func newPgxInstrumentRepository(db *pgxpool.Pool) portsrepo.FinancialInstrumentRepositoryFacade {
	return &PgxInstrumentRepository{db: db}
}

var _ portsrepo.FinancialInstrumentRepositoryFacade = (*PgxInstrumentRepository)(nil)

func (r *PgxInstrumentRepository) SaveInstrument(ctx context.Context, instrument domain.FinancialInstrument) error {
	modelInstrument := mapping.ToModelFinancialInstrument(instrument)
	query := `
        INSERT INTO financial_instruments (instrument_id, user_id, name, type, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.db.Exec(ctx, query,
		modelInstrument.InstrumentID,
		modelInstrument.UserID,
		modelInstrument.Name,
		modelInstrument.Type,
		modelInstrument.CreatedAt,
		modelInstrument.CreatedBy,
		modelInstrument.LastUpdatedAt,
		modelInstrument.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save instrument: %w", err)
	}
	return nil
}

func (r *PgxInstrumentRepository) FindInstrumentByID(ctx context.Context, instrumentID string) (*domain.FinancialInstrument, error) {
	query := `
		SELECT instrument_id, user_id, name, type, created_at, created_by, last_updated_at, last_updated_by
		FROM financial_instruments
		WHERE instrument_id = $1;
	`
	var m models.FinancialInstrument
	err := r.db.QueryRow(ctx, query, instrumentID).Scan(
		&m.InstrumentID,
		&m.UserID,
		&m.Name,
		&m.Type,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find instrument by ID %s: %w", instrumentID, err)
	}

	domainInstrument := mapping.ToDomainFinancialInstrument(m)
	return &domainInstrument, nil
}

func (r *PgxInstrumentRepository) ListInstrumentsByUser(ctx context.Context, userID string) ([]domain.FinancialInstrument, error) {
	query := `
		SELECT instrument_id, user_id, name, type, created_at, created_by, last_updated_at, last_updated_by
		FROM financial_instruments
		WHERE user_id = $1
		ORDER BY created_at;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments for user %s: %w", userID, err)
	}
	defer rows.Close()

	instruments := []domain.FinancialInstrument{}
	for rows.Next() {
		var m models.FinancialInstrument
		if err := rows.Scan(
			&m.InstrumentID,
			&m.UserID,
			&m.Name,
			&m.Type,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan instrument row: %w", err)
		}
		instruments = append(instruments, mapping.ToDomainFinancialInstrument(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument rows: %w", err)
	}
	return instruments, nil
}
