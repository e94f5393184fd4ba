package ledger_test

import (
	"testing"
	"time"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/finman-app/finman_backend/internal/utils/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDebt(total, paid, discount decimal.Decimal) domain.Debt {
	debt := domain.Debt{
		DebtID:         "debt-1",
		UserID:         "user-1",
		TotalAmount:    total,
		PaidAmount:     paid,
		DiscountAmount: discount,
		DueDate:        time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.DebtPending,
	}
	debt.RecalculateRemaining()
	debt.Status = debt.DeriveStatus()
	return debt
}

func newTestPayment(total, principal, discount decimal.Decimal) domain.Payment {
	return domain.Payment{
		PaymentID:       "payment-1",
		DebtID:          "debt-1",
		UserID:          "user-1",
		TotalAmount:     total,
		PrincipalAmount: principal,
		DiscountAmount:  discount,
		PaymentDate:     time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestApplyPaymentPrincipalAndDiscountSettleDebt(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(50), decimal.Zero, decimal.Zero)
	payment := newTestPayment(decimal.NewFromInt(50), decimal.NewFromInt(30), decimal.NewFromInt(20))

	applied, err := ledger.ApplyPayment(debt, nil, payment)
	require.NoError(t, err)

	assert.True(t, applied.Debt.PaidAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, applied.Debt.DiscountAmount.Equal(decimal.NewFromInt(20)))
	assert.True(t, applied.Debt.RemainingAmount.IsZero())
	assert.Equal(t, domain.DebtPaid, applied.Debt.Status)
}

func TestApplyPaymentPartialMovesToPartial(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
	payment := newTestPayment(decimal.NewFromInt(40), decimal.NewFromInt(40), decimal.Zero)

	applied, err := ledger.ApplyPayment(debt, nil, payment)
	require.NoError(t, err)

	assert.True(t, applied.Debt.RemainingAmount.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, domain.DebtPartial, applied.Debt.Status)
}

func TestApplyPaymentOverpaymentRejected(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(100), decimal.NewFromInt(80), decimal.Zero)
	payment := newTestPayment(decimal.NewFromInt(25), decimal.NewFromInt(25), decimal.Zero)

	_, err := ledger.ApplyPayment(debt, nil, payment)
	assert.ErrorIs(t, err, apperrors.ErrOverpayment)
}

func TestApplyPaymentCancelledDebtRejected(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
	debt.Status = domain.DebtCancelled
	payment := newTestPayment(decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.Zero)

	_, err := ledger.ApplyPayment(debt, nil, payment)
	assert.ErrorIs(t, err, apperrors.ErrDebtClosed)
}

func TestApplyPaymentInconsistentAmountsRejected(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(100), decimal.Zero, decimal.Zero)

	payment := newTestPayment(decimal.NewFromInt(50), decimal.NewFromInt(30), decimal.NewFromInt(10))
	_, err := ledger.ApplyPayment(debt, nil, payment)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	payment = newTestPayment(decimal.Zero, decimal.Zero, decimal.Zero)
	_, err = ledger.ApplyPayment(debt, nil, payment)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	payment = newTestPayment(decimal.NewFromInt(10), decimal.NewFromInt(20), decimal.NewFromInt(-10))
	_, err = ledger.ApplyPayment(debt, nil, payment)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestApplyPaymentDiscountOnlySettlesRemaining(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(100), decimal.NewFromInt(90), decimal.Zero)
	payment := newTestPayment(decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(10))

	applied, err := ledger.ApplyPayment(debt, nil, payment)
	require.NoError(t, err)
	assert.True(t, applied.Debt.RemainingAmount.IsZero())
	assert.Equal(t, domain.DebtPaid, applied.Debt.Status)
}

func installmentFixture(number int, amount int64) domain.Installment {
	return domain.Installment{
		DebtID:  "debt-1",
		Number:  number,
		DueDate: time.Date(2025, time.June, number, 0, 0, 0, 0, time.UTC),
		Amount:  decimal.NewFromInt(amount),
	}
}

func TestApplyPaymentSettlesInstallmentsEarliestFirst(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(90), decimal.Zero, decimal.Zero)
	// Out of order on purpose; settlement must still walk by number.
	installments := []domain.Installment{
		installmentFixture(3, 30),
		installmentFixture(1, 30),
		installmentFixture(2, 30),
	}
	payment := newTestPayment(decimal.NewFromInt(65), decimal.NewFromInt(65), decimal.Zero)

	applied, err := ledger.ApplyPayment(debt, installments, payment)
	require.NoError(t, err)

	// 65 fully covers installments 1 and 2; the partial 5 on the third leaves it open.
	require.Len(t, applied.PaidInstallments, 2)
	assert.Equal(t, 1, applied.PaidInstallments[0].Number)
	assert.Equal(t, 2, applied.PaidInstallments[1].Number)
	for _, inst := range applied.PaidInstallments {
		assert.True(t, inst.IsPaid)
		require.NotNil(t, inst.PaymentID)
		assert.Equal(t, payment.PaymentID, *inst.PaymentID)
	}
}

func TestApplyPaymentSkipsAlreadyPaidInstallments(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(90), decimal.NewFromInt(30), decimal.Zero)
	first := installmentFixture(1, 30)
	first.MarkPaid("earlier-payment", time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
	installments := []domain.Installment{first, installmentFixture(2, 30), installmentFixture(3, 30)}

	payment := newTestPayment(decimal.NewFromInt(30), decimal.NewFromInt(30), decimal.Zero)
	applied, err := ledger.ApplyPayment(debt, installments, payment)
	require.NoError(t, err)

	// Cumulative coverage reaches installment 2 only; 1 stays attributed to the
	// earlier payment.
	require.Len(t, applied.PaidInstallments, 1)
	assert.Equal(t, 2, applied.PaidInstallments[0].Number)
}

func TestApplyPaymentFullSettlementCoversAllInstallments(t *testing.T) {
	debt := newTestDebt(decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
	installments := []domain.Installment{
		installmentFixture(1, 34),
		installmentFixture(2, 33),
		installmentFixture(3, 33),
	}
	payment := newTestPayment(decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.Zero)

	applied, err := ledger.ApplyPayment(debt, installments, payment)
	require.NoError(t, err)
	assert.Equal(t, domain.DebtPaid, applied.Debt.Status)
	assert.Len(t, applied.PaidInstallments, 3)
}
