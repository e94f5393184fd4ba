package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus mirrors the debts.status column. OVERDUE never appears here; it is
// derived on read.
type DebtStatus string

// Debt mirrors the debts table.
type Debt struct {
	DebtID           string
	UserID           string
	InstrumentID     *string
	Description      string
	Category         string
	Tags             []string
	TotalAmount      decimal.Decimal
	PaidAmount       decimal.Decimal
	DiscountAmount   decimal.Decimal
	RemainingAmount  decimal.Decimal
	DueDate          time.Time
	Status           DebtStatus
	InstallmentCount *int
	AuditFields
}

// Installment mirrors the installments table; (DebtID, Number) is the primary key.
type Installment struct {
	DebtID    string
	Number    int
	DueDate   time.Time
	Amount    decimal.Decimal
	IsPaid    bool
	PaymentID *string
	AuditFields
}
