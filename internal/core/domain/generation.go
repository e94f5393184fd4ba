package domain

import "time"

// GenerationStatus is the terminal state of one generation job attempt.
type GenerationStatus string

const (
	GenerationPending GenerationStatus = "PENDING"
	GenerationSuccess GenerationStatus = "SUCCESS"
	GenerationFailed  GenerationStatus = "FAILED"
)

// HistoryLogEntry is one structured attempt record on a generation record.
type HistoryLogEntry struct {
	At      time.Time `json:"at"`
	Stage   string    `json:"stage"` // CHECKED, PLANNED, PERSISTED, LOGGED
	Message string    `json:"message,omitempty"`
}

// GenerationRecord is the idempotency record for one materialized occurrence of a
// recurrence. Unique on (RecurrenceID, ScheduledDate): a second runner hitting the
// same occurrence conflicts on insert and treats the occurrence as already handled.
// PaymentID is filled later by reconciliation flows and is not part of the key.
type GenerationRecord struct {
	RecordID      string            `json:"recordID"` // Primary Key (UUID)
	RecurrenceID  string            `json:"recurrenceID"`
	ScheduledDate time.Time         `json:"scheduledDate"`
	DebtID        string            `json:"debtID"`
	PaymentID     *string           `json:"paymentID"`
	Status        GenerationStatus  `json:"status"`
	HistoryLogs   []HistoryLogEntry `json:"historyLogs"`
	AuditFields
}
