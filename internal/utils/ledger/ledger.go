// Package ledger holds the pure amount arithmetic for debts, payments and
// installment plans. It mutates nothing outside its inputs and touches no storage,
// so both services and repositories can lean on it for consistent money math.
package ledger

import (
	"fmt"
	"time"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
)

// PaymentApplication is the outcome of applying one payment to a debt: the updated
// debt plus the installments newly covered by the cumulative paid amount.
type PaymentApplication struct {
	Debt             domain.Debt
	PaidInstallments []domain.Installment
}

// ApplyPayment applies payment to debt and its installment set, enforcing the
// amount invariants:
//
//	remaining = total - paid - discount, always >= 0
//
// The payment must satisfy principal + discount == total. An application that would
// drive remaining below zero fails with ErrOverpayment; discounts may absorb at most
// the current remaining amount. Installments are settled earliest-first, and only
// when the cumulative paid+discount fully covers their amount.
func ApplyPayment(debt domain.Debt, installments []domain.Installment, payment domain.Payment) (*PaymentApplication, error) {
	if debt.IsClosed() {
		return nil, apperrors.ErrDebtClosed
	}
	if !payment.AmountsConsistent() {
		return nil, fmt.Errorf("%w: principal %s + discount %s != total %s",
			apperrors.ErrValidation,
			payment.PrincipalAmount.String(), payment.DiscountAmount.String(), payment.TotalAmount.String())
	}
	if !payment.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: payment total must be positive", apperrors.ErrValidation)
	}
	if payment.PrincipalAmount.IsNegative() || payment.DiscountAmount.IsNegative() {
		return nil, fmt.Errorf("%w: payment amounts must not be negative", apperrors.ErrValidation)
	}
	if payment.TotalAmount.GreaterThan(debt.RemainingAmount) {
		return nil, fmt.Errorf("%w: payment total %s exceeds remaining %s",
			apperrors.ErrOverpayment, payment.TotalAmount.String(), debt.RemainingAmount.String())
	}

	debt.PaidAmount = debt.PaidAmount.Add(payment.PrincipalAmount)
	debt.DiscountAmount = debt.DiscountAmount.Add(payment.DiscountAmount)
	debt.RecalculateRemaining()
	if debt.RemainingAmount.IsNegative() {
		// Unreachable given the overpayment check, kept as an invariant guard.
		return nil, fmt.Errorf("%w: remaining amount went negative", apperrors.ErrOverpayment)
	}
	debt.Status = debt.DeriveStatus()

	paid := settleInstallments(&debt, installments, payment.PaymentID, payment.PaymentDate)

	return &PaymentApplication{Debt: debt, PaidInstallments: paid}, nil
}

// settleInstallments marks every installment whose amount is fully covered by the
// debt's cumulative paid+discount, walking in ascending number order. A partial
// cover leaves the installment open; the partial amount stays attributed to the
// debt total only.
func settleInstallments(debt *domain.Debt, installments []domain.Installment, paymentID string, at time.Time) []domain.Installment {
	if len(installments) == 0 {
		return nil
	}

	ordered := make([]domain.Installment, len(installments))
	copy(ordered, installments)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Number < ordered[j-1].Number; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	covered := debt.PaidAmount.Add(debt.DiscountAmount)
	var newlyPaid []domain.Installment
	for idx := range ordered {
		inst := ordered[idx]
		if covered.LessThan(inst.Amount) {
			break
		}
		covered = covered.Sub(inst.Amount)
		if inst.IsPaid {
			continue
		}
		inst.MarkPaid(paymentID, at)
		newlyPaid = append(newlyPaid, inst)
	}
	return newlyPaid
}
