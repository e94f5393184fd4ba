package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is money received against a financial instrument. Thin CRUD only; the
// generation engine never touches incomes.
type Income struct {
	IncomeID     string          `json:"incomeID"` // Primary Key (UUID)
	UserID       string          `json:"userID"`
	InstrumentID *string         `json:"instrumentID"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	ReceiptDate  time.Time       `json:"receiptDate"`
	Recurring    bool            `json:"recurring"`
	AuditFields
}
