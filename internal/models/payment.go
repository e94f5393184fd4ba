package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment mirrors the payments table. Rows are insert-only.
type Payment struct {
	PaymentID       string
	DebtID          string
	UserID          string
	TotalAmount     decimal.Decimal
	PrincipalAmount decimal.Decimal
	DiscountAmount  decimal.Decimal
	PaymentDate     time.Time
	AuditFields
}
