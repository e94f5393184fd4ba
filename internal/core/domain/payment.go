package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records a single payment event against a debt. Payments are insert-only;
// corrections are new payments, never mutations.
// Invariant: TotalAmount = PrincipalAmount + DiscountAmount.
type Payment struct {
	PaymentID       string          `json:"paymentID"` // Primary Key (UUID)
	DebtID          string          `json:"debtID"`
	UserID          string          `json:"userID"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	PaymentDate     time.Time       `json:"paymentDate"`
	AuditFields
}

// AmountsConsistent reports whether the payment's amount invariant holds.
func (p *Payment) AmountsConsistent() bool {
	return p.PrincipalAmount.Add(p.DiscountAmount).Equal(p.TotalAmount)
}
