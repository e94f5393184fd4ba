package models

// InstrumentType mirrors the financial_instruments.type column.
type InstrumentType string

// FinancialInstrument mirrors the financial_instruments table.
type FinancialInstrument struct {
	InstrumentID string
	UserID       string
	Name         string
	Type         InstrumentType
	AuditFields
}
