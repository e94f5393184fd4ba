package services

import (
	"context"
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

// paymentService is the single entry point for payment application. The amount
// invariants live in the ledger package; persistence and per-debt serialization
// live in the repository, which holds a row lock on the debt for the duration of
// each application.
type paymentService struct {
	paymentRepo    portsrepo.PaymentRepositoryFacade
	debtRepo       portsrepo.DebtRepositoryFacade
	storageTimeout time.Duration
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, debtRepo portsrepo.DebtRepositoryFacade, storageTimeout time.Duration) portssvc.PaymentSvcFacade {
	if storageTimeout <= 0 {
		storageTimeout = 10 * time.Second
	}
	return &paymentService{
		paymentRepo:    paymentRepo,
		debtRepo:       debtRepo,
		storageTimeout: storageTimeout,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// ApplyPayment validates and applies a payment against a debt. Domain rejections
// (overpayment, cancelled debt, malformed amounts) leave no state behind.
func (s *paymentService) ApplyPayment(ctx context.Context, userID, debtID string, req dto.ApplyPaymentRequest) (*portssvc.PaymentOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PrincipalAmount.Add(req.DiscountAmount).Equal(req.TotalAmount) {
		return nil, fmt.Errorf("%w: principal + discount must equal total", apperrors.ErrValidation)
	}
	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: payment total must be positive", apperrors.ErrValidation)
	}
	if req.PrincipalAmount.IsNegative() || req.DiscountAmount.IsNegative() {
		return nil, fmt.Errorf("%w: payment amounts must not be negative", apperrors.ErrValidation)
	}

	// Ownership check before touching any state.
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}
	if debt.UserID != userID {
		return nil, apperrors.ErrNotFound
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:       uuid.NewString(),
		DebtID:          debtID,
		UserID:          userID,
		TotalAmount:     req.TotalAmount,
		PrincipalAmount: req.PrincipalAmount,
		DiscountAmount:  req.DiscountAmount,
		PaymentDate:     schedule.Day(req.PaymentDate),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	applyCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	result, err := s.paymentRepo.ApplyPayment(applyCtx, payment)
	if err != nil {
		logger.Warn("Payment application rejected or failed",
			slog.String("debt_id", debtID),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Payment applied",
		slog.String("payment_id", payment.PaymentID),
		slog.String("debt_id", debtID),
		slog.String("remaining_amount", result.Debt.RemainingAmount.String()),
		slog.String("status", string(result.Debt.Status)),
		slog.Int("installments_settled", len(result.PaidInstallments)))

	return &portssvc.PaymentOutcome{
		Payment:          result.Payment,
		Debt:             result.Debt,
		PaidInstallments: result.PaidInstallments,
	}, nil
}

// ListPayments retrieves all payments recorded against a debt owned by userID.
func (s *paymentService) ListPayments(ctx context.Context, userID, debtID string) ([]domain.Payment, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}
	if debt.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	payments, err := s.paymentRepo.ListPaymentsByDebt(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for debt %s: %w", debtID, err)
	}
	return payments, nil
}
