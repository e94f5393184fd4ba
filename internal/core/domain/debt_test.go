package domain_test

import (
	"testing"
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func debtFixture(total, paid, discount int64) *domain.Debt {
	debt := &domain.Debt{
		TotalAmount:    decimal.NewFromInt(total),
		PaidAmount:     decimal.NewFromInt(paid),
		DiscountAmount: decimal.NewFromInt(discount),
		DueDate:        time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
		Status:         domain.DebtPending,
	}
	debt.RecalculateRemaining()
	return debt
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, domain.DebtPending, debtFixture(100, 0, 0).DeriveStatus())
	assert.Equal(t, domain.DebtPartial, debtFixture(100, 40, 0).DeriveStatus())
	assert.Equal(t, domain.DebtPartial, debtFixture(100, 0, 10).DeriveStatus())
	assert.Equal(t, domain.DebtPaid, debtFixture(100, 80, 20).DeriveStatus())

	cancelled := debtFixture(100, 100, 0)
	cancelled.Status = domain.DebtCancelled
	assert.Equal(t, domain.DebtCancelled, cancelled.DeriveStatus(), "cancellation is terminal")
}

func TestEffectiveStatusOverdueIsDerivedNotStored(t *testing.T) {
	debt := debtFixture(100, 0, 0)

	beforeDue := time.Date(2025, time.May, 9, 12, 0, 0, 0, time.UTC)
	onDue := time.Date(2025, time.May, 10, 18, 0, 0, 0, time.UTC)
	afterDue := time.Date(2025, time.May, 11, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.DebtPending, debt.EffectiveStatus(beforeDue))
	assert.Equal(t, domain.DebtPending, debt.EffectiveStatus(onDue), "due day itself is not overdue")
	assert.Equal(t, domain.DebtOverdue, debt.EffectiveStatus(afterDue))
	// The stored status never changed.
	assert.Equal(t, domain.DebtPending, debt.Status)
}

func TestEffectiveStatusRevertsOnceSettled(t *testing.T) {
	afterDue := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	partial := debtFixture(100, 40, 0)
	assert.Equal(t, domain.DebtOverdue, partial.EffectiveStatus(afterDue))

	paid := debtFixture(100, 100, 0)
	assert.Equal(t, domain.DebtPaid, paid.EffectiveStatus(afterDue))

	// Extending the due date clears the classification without any write.
	extended := debtFixture(100, 40, 0)
	extended.DueDate = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, domain.DebtPartial, extended.EffectiveStatus(afterDue))
}

func TestEffectiveStatusCancelledWins(t *testing.T) {
	debt := debtFixture(100, 0, 0)
	debt.Status = domain.DebtCancelled
	afterDue := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, domain.DebtCancelled, debt.EffectiveStatus(afterDue))
}

func TestRecalculateRemaining(t *testing.T) {
	debt := debtFixture(100, 30, 20)
	assert.True(t, debt.RemainingAmount.Equal(decimal.NewFromInt(50)))
}

func TestParseDebtCategory(t *testing.T) {
	assert.Equal(t, domain.CategoryHome, domain.ParseDebtCategory("HOME"))
	assert.Equal(t, domain.CategoryUnknown, domain.ParseDebtCategory(""))
	assert.Equal(t, domain.CategoryUnknown, domain.ParseDebtCategory("groceries"))
}
