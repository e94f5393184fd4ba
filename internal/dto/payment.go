package dto

import (
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyPaymentRequest defines the data needed to apply a payment to a debt.
// TotalAmount must equal PrincipalAmount + DiscountAmount.
type ApplyPaymentRequest struct {
	TotalAmount     decimal.Decimal `json:"totalAmount" binding:"required"`
	PrincipalAmount decimal.Decimal `json:"principalAmount" binding:"required"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	PaymentDate     time.Time       `json:"paymentDate" binding:"required"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID       string          `json:"paymentID"`
	DebtID          string          `json:"debtID"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	PaymentDate     time.Time       `json:"paymentDate"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:       p.PaymentID,
		DebtID:          p.DebtID,
		TotalAmount:     p.TotalAmount,
		PrincipalAmount: p.PrincipalAmount,
		DiscountAmount:  p.DiscountAmount,
		PaymentDate:     p.PaymentDate,
		CreatedAt:       p.CreatedAt,
	}
}

// PaymentApplicationResponse returns the payment together with the debt state it
// produced.
type PaymentApplicationResponse struct {
	Payment PaymentResponse `json:"payment"`
	Debt    DebtResponse    `json:"debt"`
}
