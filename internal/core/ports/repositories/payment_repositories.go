package repositories

import (
	"context"

	"github.com/finman-app/finman_backend/internal/core/domain"
)

// PaymentApplicationResult carries back the state written by ApplyPayment.
type PaymentApplicationResult struct {
	Payment          domain.Payment
	Debt             domain.Debt
	PaidInstallments []domain.Installment
}

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsByDebt retrieves all payments recorded against a debt, oldest
	// first.
	ListPaymentsByDebt(ctx context.Context, debtID string) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payment data.
type PaymentWriter interface {
	// ApplyPayment inserts the payment and applies it to its debt and installment
	// set in one transaction, holding a row lock on the debt so no two payments
	// apply to the same debt concurrently. Domain rejections (overpayment, closed
	// debt, malformed amounts) surface unchanged with nothing written.
	ApplyPayment(ctx context.Context, payment domain.Payment) (*PaymentApplicationResult, error)
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
