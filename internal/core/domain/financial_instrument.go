package domain

// InstrumentType classifies a financial instrument.
type InstrumentType string

const (
	DebitAccount InstrumentType = "DEBIT_ACCOUNT"
	CreditCard   InstrumentType = "CREDIT_CARD"
	Cash         InstrumentType = "CASH"
)

// FinancialInstrument is an account-like entity that debts and incomes attach to.
type FinancialInstrument struct {
	InstrumentID string         `json:"instrumentID"` // Primary Key (UUID)
	UserID       string         `json:"userID"`
	Name         string         `json:"name"`
	Type         InstrumentType `json:"type"`
	AuditFields
}
