package dto

import (
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateIncomeRequest defines the data needed to record an income.
type CreateIncomeRequest struct {
	InstrumentID *string         `json:"instrumentID"`
	Description  string          `json:"description" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	ReceiptDate  time.Time       `json:"receiptDate" binding:"required"`
	Recurring    bool            `json:"recurring"`
}

// IncomeResponse defines the data returned for an income.
type IncomeResponse struct {
	IncomeID     string          `json:"incomeID"`
	InstrumentID *string         `json:"instrumentID"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	ReceiptDate  time.Time       `json:"receiptDate"`
	Recurring    bool            `json:"recurring"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToIncomeResponse converts a domain Income to IncomeResponse.
func ToIncomeResponse(i *domain.Income) IncomeResponse {
	return IncomeResponse{
		IncomeID:     i.IncomeID,
		InstrumentID: i.InstrumentID,
		Description:  i.Description,
		Amount:       i.Amount,
		ReceiptDate:  i.ReceiptDate,
		Recurring:    i.Recurring,
		CreatedAt:    i.CreatedAt,
	}
}
