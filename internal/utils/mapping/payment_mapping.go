package mapping

import (
	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/finman-app/finman_backend/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:       d.PaymentID,
		DebtID:          d.DebtID,
		UserID:          d.UserID,
		TotalAmount:     d.TotalAmount,
		PrincipalAmount: d.PrincipalAmount,
		DiscountAmount:  d.DiscountAmount,
		PaymentDate:     d.PaymentDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:       m.PaymentID,
		DebtID:          m.DebtID,
		UserID:          m.UserID,
		TotalAmount:     m.TotalAmount,
		PrincipalAmount: m.PrincipalAmount,
		DiscountAmount:  m.DiscountAmount,
		PaymentDate:     m.PaymentDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
