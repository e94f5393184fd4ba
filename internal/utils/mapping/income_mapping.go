package mapping

import (
	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/finman-app/finman_backend/internal/models"
)

// ToModelIncome converts a domain Income to its model form.
func ToModelIncome(d domain.Income) models.Income {
	return models.Income{
		IncomeID:     d.IncomeID,
		UserID:       d.UserID,
		InstrumentID: d.InstrumentID,
		Description:  d.Description,
		Amount:       d.Amount,
		ReceiptDate:  d.ReceiptDate,
		Recurring:    d.Recurring,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainIncome converts a model Income to its domain form.
func ToDomainIncome(m models.Income) domain.Income {
	return domain.Income{
		IncomeID:     m.IncomeID,
		UserID:       m.UserID,
		InstrumentID: m.InstrumentID,
		Description:  m.Description,
		Amount:       m.Amount,
		ReceiptDate:  m.ReceiptDate,
		Recurring:    m.Recurring,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
