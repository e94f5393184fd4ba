package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus indicates the lifecycle state of a debt.
// OVERDUE is never stored; it is a read-time classification (see EffectiveStatus).
type DebtStatus string

const (
	DebtPending   DebtStatus = "PENDING"
	DebtPartial   DebtStatus = "PARTIAL"
	DebtPaid      DebtStatus = "PAID"
	DebtOverdue   DebtStatus = "OVERDUE"
	DebtCancelled DebtStatus = "CANCELLED"
)

// DebtCategory classifies what a debt was incurred for.
type DebtCategory string

const (
	CategoryUnknown   DebtCategory = "UNKNOWN"
	CategoryHome      DebtCategory = "HOME"
	CategoryTransport DebtCategory = "TRANSPORT"
	CategoryHealth    DebtCategory = "HEALTH"
	CategoryFood      DebtCategory = "FOOD"
	CategoryLifestyle DebtCategory = "LIFESTYLE"
	CategoryEducation DebtCategory = "EDUCATION"
	CategoryGoals     DebtCategory = "GOALS"
	CategoryPersonal  DebtCategory = "PERSONAL"
)

// ParseDebtCategory maps a raw string to a known category, defaulting to UNKNOWN.
func ParseDebtCategory(s string) DebtCategory {
	switch DebtCategory(s) {
	case CategoryHome, CategoryTransport, CategoryHealth, CategoryFood,
		CategoryLifestyle, CategoryEducation, CategoryGoals, CategoryPersonal:
		return DebtCategory(s)
	default:
		return CategoryUnknown
	}
}

// Debt is a single payable obligation, optionally split into installments.
// Invariant: RemainingAmount = TotalAmount - PaidAmount - DiscountAmount, >= 0.
type Debt struct {
	DebtID           string          `json:"debtID"` // Primary Key (UUID)
	UserID           string          `json:"userID"`
	InstrumentID     *string         `json:"instrumentID"` // Required when InstallmentCount > 0
	Description      string          `json:"description"`
	Category         DebtCategory    `json:"category"`
	Tags             []string        `json:"tags"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	RemainingAmount  decimal.Decimal `json:"remainingAmount"`
	DueDate          time.Time       `json:"dueDate"`
	Status           DebtStatus      `json:"status"`
	InstallmentCount *int            `json:"installmentCount"`
	AuditFields
}

// HasInstallments reports whether the debt carries an installment schedule.
func (d *Debt) HasInstallments() bool {
	return d.InstallmentCount != nil && *d.InstallmentCount > 0
}

// IsClosed reports whether the debt accepts no further payments.
func (d *Debt) IsClosed() bool {
	return d.Status == DebtCancelled
}

// RecalculateRemaining re-derives RemainingAmount from the amount invariant.
func (d *Debt) RecalculateRemaining() {
	d.RemainingAmount = d.TotalAmount.Sub(d.PaidAmount).Sub(d.DiscountAmount)
}

// DeriveStatus returns the stored status implied by the current amounts.
// CANCELLED is terminal and never derived.
func (d *Debt) DeriveStatus() DebtStatus {
	if d.Status == DebtCancelled {
		return DebtCancelled
	}
	switch {
	case d.RemainingAmount.IsZero():
		return DebtPaid
	case d.PaidAmount.Add(d.DiscountAmount).IsPositive():
		return DebtPartial
	default:
		return DebtPending
	}
}

// EffectiveStatus classifies the debt as of a given date, surfacing OVERDUE when the
// due date has passed with a positive remaining amount. The classification reverts
// on its own once the debt is settled or the due date is extended.
func (d *Debt) EffectiveStatus(asOf time.Time) DebtStatus {
	if d.Status == DebtCancelled {
		return DebtCancelled
	}
	if d.RemainingAmount.IsPositive() && d.DueDate.Before(asOf.Truncate(24*time.Hour)) {
		return DebtOverdue
	}
	return d.DeriveStatus()
}
