package ledger

import (
	"fmt"
	"time"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/utils/schedule"
	"github.com/shopspring/decimal"
)

// PlannedInstallment is one (amount, due date) slot of an installment plan before
// it becomes a persisted Installment row.
type PlannedInstallment struct {
	Number  int
	Amount  decimal.Decimal
	DueDate time.Time
}

var cents = decimal.NewFromInt(100)

// PlanInstallments splits totalAmount into count dated shares. Division happens on
// integer cents; the rounding remainder lands on the last installment so the plan
// sums exactly to totalAmount. Due dates advance one calendar month from firstDue
// with end-of-month clamping.
func PlanInstallments(totalAmount decimal.Decimal, count int, firstDue time.Time) ([]PlannedInstallment, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", apperrors.ErrInvalidPlan, count)
	}
	if !totalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: total amount must be positive, got %s", apperrors.ErrInvalidPlan, totalAmount.String())
	}

	totalCents := totalAmount.Mul(cents)
	if !totalCents.Equal(totalCents.Truncate(0)) {
		return nil, fmt.Errorf("%w: total amount %s has sub-cent precision", apperrors.ErrInvalidPlan, totalAmount.String())
	}
	// Every installment must carry at least one cent.
	if decimal.NewFromInt(int64(count)).GreaterThan(totalCents) {
		return nil, fmt.Errorf("%w: %s cannot fund %d installments", apperrors.ErrInvalidPlan, totalAmount.String(), count)
	}

	baseCents := totalCents.Div(decimal.NewFromInt(int64(count))).Floor()
	base := baseCents.Div(cents)
	last := totalAmount.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))

	firstDueDay := schedule.Day(firstDue)
	plan := make([]PlannedInstallment, count)
	for i := 0; i < count; i++ {
		amount := base
		if i == count-1 {
			amount = last
		}
		plan[i] = PlannedInstallment{
			Number:  i + 1,
			Amount:  amount,
			DueDate: schedule.AddMonthsClamped(firstDueDay, i, firstDueDay.Day()),
		}
	}
	return plan, nil
}
