package dto

import (
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
)

// CreateInstrumentRequest defines the data needed to create a financial instrument.
type CreateInstrumentRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=DEBIT_ACCOUNT CREDIT_CARD CASH"`
}

// InstrumentResponse defines the data returned for a financial instrument.
type InstrumentResponse struct {
	InstrumentID  string    `json:"instrumentID"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToInstrumentResponse converts a domain FinancialInstrument to InstrumentResponse.
func ToInstrumentResponse(i *domain.FinancialInstrument) InstrumentResponse {
	return InstrumentResponse{
		InstrumentID:  i.InstrumentID,
		Name:          i.Name,
		Type:          string(i.Type),
		CreatedAt:     i.CreatedAt,
		LastUpdatedAt: i.LastUpdatedAt,
	}
}
