package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recurrence mirrors the recurrences table. ExecutionLogs is a JSONB array appended
// to by the generation runner only.
type Recurrence struct {
	RecurrenceID     string
	UserID           string
	InstrumentID     *string
	Description      string
	Category         string
	Amount           decimal.Decimal
	Active           bool
	StartDate        time.Time
	EndDate          *time.Time
	DayOfMonth       int
	InstallmentCount *int
	NextRunDate      time.Time
	ExecutionLogs    []byte // raw JSONB
	AuditFields
}

// GenerationRecord mirrors the generation_records table. The unique constraint on
// (recurrence_id, scheduled_date) is the idempotency key for occurrence generation.
type GenerationRecord struct {
	RecordID      string
	RecurrenceID  string
	ScheduledDate time.Time
	DebtID        string
	PaymentID     *string
	Status        string
	HistoryLogs   []byte // raw JSONB
	AuditFields
}
