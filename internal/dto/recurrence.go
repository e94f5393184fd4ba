package dto

import (
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurrenceRequest defines the data needed to create a recurrence.
type CreateRecurrenceRequest struct {
	InstrumentID     *string         `json:"instrumentID"`
	Description      string          `json:"description" binding:"required"`
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	StartDate        time.Time       `json:"startDate" binding:"required"`
	EndDate          *time.Time      `json:"endDate"`
	DayOfMonth       int             `json:"dayOfMonth" binding:"required,min=1,max=31"`
	InstallmentCount *int            `json:"installmentCount"`
}

// UpdateRecurrenceRequest defines the mutable fields of a recurrence. Pointers
// distinguish omitted fields from zero values.
type UpdateRecurrenceRequest struct {
	Description *string    `json:"description"`
	DayOfMonth  *int       `json:"dayOfMonth" binding:"omitempty,min=1,max=31"`
	EndDate     *time.Time `json:"endDate"`
	Active      *bool      `json:"active"`
}

// RecurrenceResponse defines the data returned for a recurrence.
type RecurrenceResponse struct {
	RecurrenceID     string                     `json:"recurrenceID"`
	InstrumentID     *string                    `json:"instrumentID"`
	Description      string                     `json:"description"`
	Category         string                     `json:"category"`
	Amount           decimal.Decimal            `json:"amount"`
	Active           bool                       `json:"active"`
	StartDate        time.Time                  `json:"startDate"`
	EndDate          *time.Time                 `json:"endDate"`
	DayOfMonth       int                        `json:"dayOfMonth"`
	InstallmentCount *int                       `json:"installmentCount"`
	NextRunDate      time.Time                  `json:"nextRunDate"`
	ExecutionLogs    []domain.ExecutionLogEntry `json:"executionLogs"`
	CreatedAt        time.Time                  `json:"createdAt"`
	LastUpdatedAt    time.Time                  `json:"lastUpdatedAt"`
}

// ToRecurrenceResponse converts a domain Recurrence to RecurrenceResponse.
func ToRecurrenceResponse(r *domain.Recurrence) RecurrenceResponse {
	return RecurrenceResponse{
		RecurrenceID:     r.RecurrenceID,
		InstrumentID:     r.InstrumentID,
		Description:      r.Description,
		Category:         string(r.Category),
		Amount:           r.Amount,
		Active:           r.Active,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		DayOfMonth:       r.DayOfMonth,
		InstallmentCount: r.InstallmentCount,
		NextRunDate:      r.NextRunDate,
		ExecutionLogs:    r.ExecutionLogs,
		CreatedAt:        r.CreatedAt,
		LastUpdatedAt:    r.LastUpdatedAt,
	}
}

// GenerationRecordResponse defines the audit-trail entry returned for one
// materialized occurrence.
type GenerationRecordResponse struct {
	RecordID      string                   `json:"recordID"`
	RecurrenceID  string                   `json:"recurrenceID"`
	ScheduledDate time.Time                `json:"scheduledDate"`
	DebtID        string                   `json:"debtID"`
	PaymentID     *string                  `json:"paymentID"`
	Status        string                   `json:"status"`
	HistoryLogs   []domain.HistoryLogEntry `json:"historyLogs"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ToGenerationRecordResponse converts a domain GenerationRecord to its response form.
func ToGenerationRecordResponse(r *domain.GenerationRecord) GenerationRecordResponse {
	return GenerationRecordResponse{
		RecordID:      r.RecordID,
		RecurrenceID:  r.RecurrenceID,
		ScheduledDate: r.ScheduledDate,
		DebtID:        r.DebtID,
		PaymentID:     r.PaymentID,
		Status:        string(r.Status),
		HistoryLogs:   r.HistoryLogs,
		CreatedAt:     r.CreatedAt,
	}
}

// TriggerRecurrenceResponse summarizes one trigger pass over due recurrences.
type TriggerRecurrenceResponse struct {
	Evaluated int `json:"evaluated"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
