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
	"github.com/finman-app/finman_backend/internal/utils/ledger"
	"github.com/finman-app/finman_backend/internal/utils/schedule"
)

// debtService manages manually created debts and debt reads. Recurrence-generated
// debts share the same invariants but are written by the generation runner.
type debtService struct {
	debtRepo       portsrepo.DebtRepositoryFacade
	instrumentRepo portsrepo.FinancialInstrumentRepositoryFacade
	paymentSvc     portssvc.PaymentSvcFacade
}

// NewDebtService creates a new DebtService. paymentSvc handles the immediate
// settlement of debts created with IsPaid.
func NewDebtService(debtRepo portsrepo.DebtRepositoryFacade, instrumentRepo portsrepo.FinancialInstrumentRepositoryFacade, paymentSvc portssvc.PaymentSvcFacade) portssvc.DebtSvcFacade {
	return &debtService{
		debtRepo:       debtRepo,
		instrumentRepo: instrumentRepo,
		paymentSvc:     paymentSvc,
	}
}

var _ portssvc.DebtSvcFacade = (*debtService)(nil)

// CreateDebt validates and persists a new debt, planning its installment schedule
// when requested. A debt flagged IsPaid is settled through the normal payment path
// immediately after creation so the amount invariants are enforced in one place.
func (s *debtService) CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: total amount must be positive", apperrors.ErrValidation)
	}
	discount := decimalZero
	if req.DiscountAmount != nil {
		if req.DiscountAmount.IsNegative() {
			return nil, fmt.Errorf("%w: discount amount must not be negative", apperrors.ErrValidation)
		}
		if req.DiscountAmount.GreaterThan(req.TotalAmount) {
			return nil, fmt.Errorf("%w: discount amount exceeds total amount", apperrors.ErrValidation)
		}
		discount = *req.DiscountAmount
	}
	if req.InstallmentCount != nil && *req.InstallmentCount > 0 && req.InstrumentID == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrInstrumentRequired)
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
	dueDate := schedule.Day(req.DueDate)
	debt := domain.Debt{
		DebtID:           uuid.NewString(),
		UserID:           userID,
		InstrumentID:     req.InstrumentID,
		Description:      req.Description,
		Category:         domain.ParseDebtCategory(req.Category),
		Tags:             req.Tags,
		TotalAmount:      req.TotalAmount,
		PaidAmount:       decimalZero,
		DiscountAmount:   discount,
		DueDate:          dueDate,
		Status:           domain.DebtPending,
		InstallmentCount: req.InstallmentCount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	debt.RecalculateRemaining()
	debt.Status = debt.DeriveStatus()

	var installments []domain.Installment
	if req.InstallmentCount != nil && *req.InstallmentCount > 1 {
		plan, err := ledger.PlanInstallments(req.TotalAmount, *req.InstallmentCount, dueDate)
		if err != nil {
			return nil, err
		}
		installments = make([]domain.Installment, len(plan))
		for i, slot := range plan {
			installments[i] = domain.Installment{
				DebtID:      debt.DebtID,
				Number:      slot.Number,
				DueDate:     slot.DueDate,
				Amount:      slot.Amount,
				AuditFields: debt.AuditFields,
			}
		}
		debt.DueDate = installments[len(installments)-1].DueDate
	}

	if err := s.debtRepo.SaveDebtWithInstallments(ctx, debt, installments); err != nil {
		logger.Error("Failed to save debt", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save debt: %w", err)
	}
	logger.Info("Debt created", slog.String("debt_id", debt.DebtID), slog.Int("installments", len(installments)))

	if req.IsPaid {
		outcome, err := s.paymentSvc.ApplyPayment(ctx, userID, debt.DebtID, dto.ApplyPaymentRequest{
			TotalAmount:     debt.RemainingAmount,
			PrincipalAmount: debt.RemainingAmount,
			DiscountAmount:  decimalZero,
			PaymentDate:     now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to settle debt on creation: %w", err)
		}
		return &outcome.Debt, nil
	}

	return &debt, nil
}

// GetDebt retrieves a debt and its installments. The returned debt carries the
// stored status; callers derive the effective (possibly OVERDUE) classification.
func (s *debtService) GetDebt(ctx context.Context, userID, debtID string) (*domain.Debt, []domain.Installment, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}
	if debt.UserID != userID {
		return nil, nil, apperrors.ErrNotFound
	}

	var installments []domain.Installment
	if debt.HasInstallments() {
		installments, err = s.debtRepo.FindInstallmentsByDebtID(ctx, debtID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load installments for debt %s: %w", debtID, err)
		}
	}
	return debt, installments, nil
}

// ListDebts retrieves a user's debts with optional status filters.
func (s *debtService) ListDebts(ctx context.Context, userID string, params dto.ListDebtsParams) ([]domain.Debt, error) {
	statuses := make([]domain.DebtStatus, 0, len(params.Statuses))
	for _, raw := range params.Statuses {
		statuses = append(statuses, domain.DebtStatus(raw))
	}
	debts, err := s.debtRepo.ListDebtsByUser(ctx, userID, statuses, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	return debts, nil
}

// CancelDebt marks a debt CANCELLED. Cancellation is terminal: the debt accepts no
// further payments afterwards.
func (s *debtService) CancelDebt(ctx context.Context, userID, debtID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return fmt.Errorf("failed to find debt %s: %w", debtID, err)
	}
	if debt.UserID != userID {
		return apperrors.ErrNotFound
	}
	if debt.Status == domain.DebtCancelled {
		return nil
	}

	if err := s.debtRepo.CancelDebt(ctx, debtID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to cancel debt", slog.String("debt_id", debtID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to cancel debt: %w", err)
	}
	logger.Info("Debt cancelled", slog.String("debt_id", debtID))
	return nil
}
