package dto

import (
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDebtRequest defines the data needed to create a debt manually.
// InstrumentID is mandatory when InstallmentCount > 0. IsPaid creates the debt
// already settled by recording a same-day payment for the full amount.
type CreateDebtRequest struct {
	InstrumentID     *string          `json:"instrumentID"`
	Description      string           `json:"description" binding:"required"`
	Category         string           `json:"category"`
	Tags             []string         `json:"tags"`
	TotalAmount      decimal.Decimal  `json:"totalAmount" binding:"required"`
	DiscountAmount   *decimal.Decimal `json:"discountAmount"`
	DueDate          time.Time        `json:"dueDate" binding:"required"`
	InstallmentCount *int             `json:"installmentCount"`
	IsPaid           bool             `json:"isPaid"`
}

// InstallmentResponse defines the data returned for an installment.
type InstallmentResponse struct {
	Number    int             `json:"number"`
	DueDate   time.Time       `json:"dueDate"`
	Amount    decimal.Decimal `json:"amount"`
	IsPaid    bool            `json:"isPaid"`
	PaymentID *string         `json:"paymentID"`
}

// DebtResponse defines the data returned for a debt. Status carries the effective
// classification, including read-time OVERDUE.
type DebtResponse struct {
	DebtID           string                `json:"debtID"`
	InstrumentID     *string               `json:"instrumentID"`
	Description      string                `json:"description"`
	Category         string                `json:"category"`
	Tags             []string              `json:"tags"`
	TotalAmount      decimal.Decimal       `json:"totalAmount"`
	PaidAmount       decimal.Decimal       `json:"paidAmount"`
	DiscountAmount   decimal.Decimal       `json:"discountAmount"`
	RemainingAmount  decimal.Decimal       `json:"remainingAmount"`
	DueDate          time.Time             `json:"dueDate"`
	Status           string                `json:"status"`
	InstallmentCount *int                  `json:"installmentCount"`
	Installments     []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
}

// ToDebtResponse converts a domain Debt (plus optional installments) to a
// DebtResponse classified as of asOf.
func ToDebtResponse(d *domain.Debt, installments []domain.Installment, asOf time.Time) DebtResponse {
	resp := DebtResponse{
		DebtID:           d.DebtID,
		InstrumentID:     d.InstrumentID,
		Description:      d.Description,
		Category:         string(d.Category),
		Tags:             d.Tags,
		TotalAmount:      d.TotalAmount,
		PaidAmount:       d.PaidAmount,
		DiscountAmount:   d.DiscountAmount,
		RemainingAmount:  d.RemainingAmount,
		DueDate:          d.DueDate,
		Status:           string(d.EffectiveStatus(asOf)),
		InstallmentCount: d.InstallmentCount,
		CreatedAt:        d.CreatedAt,
		LastUpdatedAt:    d.LastUpdatedAt,
	}
	for _, inst := range installments {
		resp.Installments = append(resp.Installments, InstallmentResponse{
			Number:    inst.Number,
			DueDate:   inst.DueDate,
			Amount:    inst.Amount,
			IsPaid:    inst.IsPaid,
			PaymentID: inst.PaymentID,
		})
	}
	return resp
}

// ListDebtsParams holds filters for listing debts.
type ListDebtsParams struct {
	Statuses []string `form:"status"`
	Limit    int      `form:"limit"`
}
