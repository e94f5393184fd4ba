package mapping

import (
	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/finman-app/finman_backend/internal/models"
)

// ToModelFinancialInstrument converts a domain FinancialInstrument to its model form.
func ToModelFinancialInstrument(d domain.FinancialInstrument) models.FinancialInstrument {
	return models.FinancialInstrument{
		InstrumentID: d.InstrumentID,
		UserID:       d.UserID,
		Name:         d.Name,
		Type:         models.InstrumentType(d.Type),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFinancialInstrument converts a model FinancialInstrument to its domain form.
func ToDomainFinancialInstrument(m models.FinancialInstrument) domain.FinancialInstrument {
	return domain.FinancialInstrument{
		InstrumentID: m.InstrumentID,
		UserID:       m.UserID,
		Name:         m.Name,
		Type:         domain.InstrumentType(m.Type),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
