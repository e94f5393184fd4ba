package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExecutionOutcome labels one entry of a recurrence's execution log.
type ExecutionOutcome string

const (
	ExecutionSuccess ExecutionOutcome = "SUCCESS"
	ExecutionSkipped ExecutionOutcome = "SKIPPED"
	ExecutionFailed  ExecutionOutcome = "FAILED"
)

// ExecutionLogEntry is one append-only record of a generation run for a recurrence.
type ExecutionLogEntry struct {
	RunAt   time.Time        `json:"runAt"`
	RunDate time.Time        `json:"runDate"` // occurrence due date
	Outcome ExecutionOutcome `json:"outcome"`
	DebtID  *string          `json:"debtID,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Recurrence is a template for a periodically generated debt. Only the generation
// runner advances NextRunDate and appends execution logs; manual mutation is limited
// to description/schedule updates and activation toggling.
type Recurrence struct {
	RecurrenceID     string              `json:"recurrenceID"` // Primary Key (UUID)
	UserID           string              `json:"userID"`
	InstrumentID     *string             `json:"instrumentID"`
	Description      string              `json:"description"`
	Category         DebtCategory        `json:"category"`
	Amount           decimal.Decimal     `json:"amount"`
	Active           bool                `json:"active"`
	StartDate        time.Time           `json:"startDate"`
	EndDate          *time.Time          `json:"endDate"`
	DayOfMonth       int                 `json:"dayOfMonth"` // 1-31, clamped to month end
	InstallmentCount *int                `json:"installmentCount"`
	NextRunDate      time.Time           `json:"nextRunDate"`
	ExecutionLogs    []ExecutionLogEntry `json:"executionLogs"`
	AuditFields
}

// WithinDateRange reports whether date falls inside [StartDate, EndDate].
func (r *Recurrence) WithinDateRange(date time.Time) bool {
	if date.Before(r.StartDate) {
		return false
	}
	if r.EndDate != nil && date.After(*r.EndDate) {
		return false
	}
	return true
}
