package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one scheduled partial amount of a debt's total.
// The composite key is (DebtID, Number). Rows are immutable after creation except
// for IsPaid and PaymentID, which only payment application may set.
type Installment struct {
	DebtID    string          `json:"debtID"`
	Number    int             `json:"number"` // 1-based
	DueDate   time.Time       `json:"dueDate"`
	Amount    decimal.Decimal `json:"amount"`
	IsPaid    bool            `json:"isPaid"`
	PaymentID *string         `json:"paymentID"`
	AuditFields
}

// MarkPaid flags the installment as covered by the given payment.
func (i *Installment) MarkPaid(paymentID string, at time.Time) {
	i.IsPaid = true
	i.PaymentID = &paymentID
	i.LastUpdatedAt = at
}

// EarliestUnpaid returns the unpaid installment with the lowest number, or nil when
// all installments are settled.
func EarliestUnpaid(installments []Installment) *Installment {
	var found *Installment
	for idx := range installments {
		if installments[idx].IsPaid {
			continue
		}
		if found == nil || installments[idx].Number < found.Number {
			found = &installments[idx]
		}
	}
	return found
}
