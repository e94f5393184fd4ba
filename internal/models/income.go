package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income mirrors the incomes table.
type Income struct {
	IncomeID     string
	UserID       string
	InstrumentID *string
	Description  string
	Amount       decimal.Decimal
	ReceiptDate  time.Time
	Recurring    bool
	AuditFields
}
