package mapping

import (
	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/finman-app/finman_backend/internal/models"
)

// ToModelDebt converts a domain Debt to a model Debt.
func ToModelDebt(d domain.Debt) models.Debt {
	return models.Debt{
		DebtID:           d.DebtID,
		UserID:           d.UserID,
		InstrumentID:     d.InstrumentID,
		Description:      d.Description,
		Category:         string(d.Category),
		Tags:             d.Tags,
		TotalAmount:      d.TotalAmount,
		PaidAmount:       d.PaidAmount,
		DiscountAmount:   d.DiscountAmount,
		RemainingAmount:  d.RemainingAmount,
		DueDate:          d.DueDate,
		Status:           models.DebtStatus(d.Status),
		InstallmentCount: d.InstallmentCount,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDebt converts a model Debt to a domain Debt.
func ToDomainDebt(m models.Debt) domain.Debt {
	return domain.Debt{
		DebtID:           m.DebtID,
		UserID:           m.UserID,
		InstrumentID:     m.InstrumentID,
		Description:      m.Description,
		Category:         domain.ParseDebtCategory(m.Category),
		Tags:             m.Tags,
		TotalAmount:      m.TotalAmount,
		PaidAmount:       m.PaidAmount,
		DiscountAmount:   m.DiscountAmount,
		RemainingAmount:  m.RemainingAmount,
		DueDate:          m.DueDate,
		Status:           domain.DebtStatus(m.Status),
		InstallmentCount: m.InstallmentCount,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInstallment converts a domain Installment to a model Installment.
func ToModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		DebtID:      d.DebtID,
		Number:      d.Number,
		DueDate:     d.DueDate,
		Amount:      d.Amount,
		IsPaid:      d.IsPaid,
		PaymentID:   d.PaymentID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInstallment converts a model Installment to a domain Installment.
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		DebtID:      m.DebtID,
		Number:      m.Number,
		DueDate:     m.DueDate,
		Amount:      m.Amount,
		IsPaid:      m.IsPaid,
		PaymentID:   m.PaymentID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
