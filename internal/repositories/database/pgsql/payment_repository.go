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
	"github.com/finman-app/finman_backend/internal/utils/ledger"
	"github.com/finman-app/finman_backend/internal/utils/mapping"
)

const paymentColumns = `payment_id, debt_id, user_id, total_amount, principal_amount, discount_amount,
	       payment_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// ApplyPayment is the single write path for payments. It locks the debt row so
// concurrent payments against the same debt serialize, re-reads debt and
// installments under the lock, applies the pure ledger arithmetic, and persists
// the payment plus updated debt and installment rows in one transaction.
func (r *PgxPaymentRepository) ApplyPayment(ctx context.Context, payment domain.Payment) (*portsrepo.PaymentApplicationResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + debtColumns + ` FROM debts WHERE debt_id = $1 FOR UPDATE;`
	modelDebt, err := scanDebt(tx.QueryRow(ctx, lockQuery, payment.DebtID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock debt %s: %w", payment.DebtID, err)
	}
	debt := mapping.ToDomainDebt(modelDebt)

	instQuery := `SELECT ` + installmentColumns + ` FROM installments WHERE debt_id = $1 ORDER BY number;`
	rows, err := tx.Query(ctx, instQuery, payment.DebtID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments for debt %s: %w", payment.DebtID, err)
	}
	installments, err := scanInstallmentRows(rows)
	if err != nil {
		return nil, err
	}

	applied, err := ledger.ApplyPayment(debt, installments, payment)
	if err != nil {
		// Domain rejection; nothing written.
		return nil, err
	}

	modelPayment := mapping.ToModelPayment(payment)
	insertQuery := `
		INSERT INTO payments (payment_id, debt_id, user_id, total_amount, principal_amount, discount_amount,
			payment_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, insertQuery,
		modelPayment.PaymentID,
		modelPayment.DebtID,
		modelPayment.UserID,
		modelPayment.TotalAmount,
		modelPayment.PrincipalAmount,
		modelPayment.DiscountAmount,
		modelPayment.PaymentDate,
		modelPayment.CreatedAt,
		modelPayment.CreatedBy,
		modelPayment.LastUpdatedAt,
		modelPayment.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment %s: %w", modelPayment.PaymentID, err)
	}

	updatedDebt := mapping.ToModelDebt(applied.Debt)
	_, err = tx.Exec(ctx, `
		UPDATE debts
		SET paid_amount = $2, discount_amount = $3, remaining_amount = $4, status = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE debt_id = $1;
	`,
		updatedDebt.DebtID,
		updatedDebt.PaidAmount,
		updatedDebt.DiscountAmount,
		updatedDebt.RemainingAmount,
		updatedDebt.Status,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update debt %s: %w", updatedDebt.DebtID, err)
	}

	if len(applied.PaidInstallments) > 0 {
		batch := &pgx.Batch{}
		for _, inst := range applied.PaidInstallments {
			batch.Queue(`
				UPDATE installments
				SET is_paid = TRUE, payment_id = $3, last_updated_at = $4, last_updated_by = $5
				WHERE debt_id = $1 AND number = $2;
			`, inst.DebtID, inst.Number, inst.PaymentID, payment.LastUpdatedAt, payment.LastUpdatedBy)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return nil, fmt.Errorf("failed to update installments for debt %s: %w", updatedDebt.DebtID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &portsrepo.PaymentApplicationResult{
		Payment:          payment,
		Debt:             applied.Debt,
		PaidInstallments: applied.PaidInstallments,
	}, nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	domainPayment := mapping.ToDomainPayment(m)
	return &domainPayment, nil
}

func (r *PgxPaymentRepository) ListPaymentsByDebt(ctx context.Context, debtID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE debt_id = $1 ORDER BY payment_date, created_at;`
	rows, err := r.Pool.Query(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for debt %s: %w", debtID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.DebtID,
		&m.UserID,
		&m.TotalAmount,
		&m.PrincipalAmount,
		&m.DiscountAmount,
		&m.PaymentDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
