package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/finman-app/finman_backend/internal/models"
)

// ToModelRecurrence converts a domain Recurrence to a model Recurrence, serializing
// the execution log to JSONB.
func ToModelRecurrence(d domain.Recurrence) (models.Recurrence, error) {
	logs := d.ExecutionLogs
	if logs == nil {
		logs = []domain.ExecutionLogEntry{}
	}
	rawLogs, err := json.Marshal(logs)
	if err != nil {
		return models.Recurrence{}, fmt.Errorf("failed to marshal execution logs: %w", err)
	}
	return models.Recurrence{
		RecurrenceID:     d.RecurrenceID,
		UserID:           d.UserID,
		InstrumentID:     d.InstrumentID,
		Description:      d.Description,
		Category:         string(d.Category),
		Amount:           d.Amount,
		Active:           d.Active,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		DayOfMonth:       d.DayOfMonth,
		InstallmentCount: d.InstallmentCount,
		NextRunDate:      d.NextRunDate,
		ExecutionLogs:    rawLogs,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainRecurrence converts a model Recurrence to a domain Recurrence.
func ToDomainRecurrence(m models.Recurrence) (domain.Recurrence, error) {
	var logs []domain.ExecutionLogEntry
	if len(m.ExecutionLogs) > 0 {
		if err := json.Unmarshal(m.ExecutionLogs, &logs); err != nil {
			return domain.Recurrence{}, fmt.Errorf("failed to unmarshal execution logs for recurrence %s: %w", m.RecurrenceID, err)
		}
	}
	return domain.Recurrence{
		RecurrenceID:     m.RecurrenceID,
		UserID:           m.UserID,
		InstrumentID:     m.InstrumentID,
		Description:      m.Description,
		Category:         domain.ParseDebtCategory(m.Category),
		Amount:           m.Amount,
		Active:           m.Active,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		DayOfMonth:       m.DayOfMonth,
		InstallmentCount: m.InstallmentCount,
		NextRunDate:      m.NextRunDate,
		ExecutionLogs:    logs,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelGenerationRecord converts a domain GenerationRecord to its model form.
func ToModelGenerationRecord(d domain.GenerationRecord) (models.GenerationRecord, error) {
	logs := d.HistoryLogs
	if logs == nil {
		logs = []domain.HistoryLogEntry{}
	}
	rawLogs, err := json.Marshal(logs)
	if err != nil {
		return models.GenerationRecord{}, fmt.Errorf("failed to marshal history logs: %w", err)
	}
	return models.GenerationRecord{
		RecordID:      d.RecordID,
		RecurrenceID:  d.RecurrenceID,
		ScheduledDate: d.ScheduledDate,
		DebtID:        d.DebtID,
		PaymentID:     d.PaymentID,
		Status:        string(d.Status),
		HistoryLogs:   rawLogs,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainGenerationRecord converts a model GenerationRecord to its domain form.
func ToDomainGenerationRecord(m models.GenerationRecord) (domain.GenerationRecord, error) {
	var logs []domain.HistoryLogEntry
	if len(m.HistoryLogs) > 0 {
		if err := json.Unmarshal(m.HistoryLogs, &logs); err != nil {
			return domain.GenerationRecord{}, fmt.Errorf("failed to unmarshal history logs for record %s: %w", m.RecordID, err)
		}
	}
	return domain.GenerationRecord{
		RecordID:      m.RecordID,
		RecurrenceID:  m.RecurrenceID,
		ScheduledDate: m.ScheduledDate,
		DebtID:        m.DebtID,
		PaymentID:     m.PaymentID,
		Status:        domain.GenerationStatus(m.Status),
		HistoryLogs:   logs,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}
