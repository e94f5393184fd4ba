package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finman-app/finman_backend/internal/apperrors"
	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
	"github.com/finman-app/finman_backend/internal/dto"
	"github.com/finman-app/finman_backend/internal/middleware"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers payment routes under the debt resource.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/debts/:id/payments")
	{
		payments.POST("", h.applyPayment)
		payments.GET("", h.listPayments)
	}
}

// applyPayment godoc
// @Summary Apply a payment to a debt
// @Description Records a payment against a debt, splitting it into principal and discount, updating remaining amount, status and installment settlement atomically.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Debt ID"
// @Param payment body dto.ApplyPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentApplicationResponse
// @Failure 400 {object} ErrorResponse "Invalid amounts"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Debt is closed"
// @Failure 422 {object} ErrorResponse "Payment exceeds remaining amount"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id}/payments [post]
func (h *paymentHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	debtID := c.Param("id")

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	outcome, err := h.paymentService.ApplyPayment(c.Request.Context(), userID, debtID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrDebtClosed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Debt is cancelled or already paid"})
		case errors.Is(err, apperrors.ErrOverpayment):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to apply payment", slog.String("debt_id", debtID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply payment"})
		}
		return
	}

	logger.Info("Payment applied",
		slog.String("debt_id", debtID),
		slog.String("payment_id", outcome.Payment.PaymentID))
	c.JSON(http.StatusCreated, dto.PaymentApplicationResponse{
		Payment: dto.ToPaymentResponse(&outcome.Payment),
		Debt:    dto.ToDebtResponse(&outcome.Debt, outcome.PaidInstallments, time.Now()),
	})
}

// listPayments godoc
// @Summary List payments for a debt
// @Description Lists all payments recorded against a debt, oldest first.
// @Tags payments
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	debtID := c.Param("id")

	payments, err := h.paymentService.ListPayments(c.Request.Context(), userID, debtID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
			return
		}
		logger.Error("Failed to list payments", slog.String("debt_id", debtID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list payments"})
		return
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, dto.ToPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, responses)
}
