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

// debtHandler handles HTTP requests related to debts.
type debtHandler struct {
	debtService portssvc.DebtSvcFacade
}

func newDebtHandler(ds portssvc.DebtSvcFacade) *debtHandler {
	return &debtHandler{debtService: ds}
}

// registerDebtRoutes registers all debt-related routes.
func registerDebtRoutes(rg *gin.RouterGroup, debtService portssvc.DebtSvcFacade) {
	h := newDebtHandler(debtService)

	debts := rg.Group("/debts")
	{
		debts.POST("", h.createDebt)
		debts.GET("", h.listDebts)
		debts.GET("/:id", h.getDebt)
		debts.DELETE("/:id", h.cancelDebt)
	}
}

// createDebt godoc
// @Summary Create a new debt
// @Description Creates a debt, optionally with an installment schedule. Setting isPaid settles it immediately through a payment for the full remaining amount.
// @Tags debts
// @Accept json
// @Produce json
// @Param debt body dto.CreateDebtRequest true "Debt details"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Instrument not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts [post]
func (h *debtHandler) createDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	debt, err := h.debtService.CreateDebt(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidPlan):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
		default:
			logger.Error("Failed to create debt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create debt"})
		}
		return
	}

	logger.Info("Debt created", slog.String("debt_id", debt.DebtID))
	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt, nil, time.Now()))
}

// listDebts godoc
// @Summary List debts
// @Description Lists the user's debts, optionally filtered by status. OVERDUE is derived at read time.
// @Tags debts
// @Produce json
// @Param status query []string false "Status filter (PENDING, PARTIAL, PAID, OVERDUE, CANCELLED)"
// @Param limit query int false "Maximum number of debts"
// @Success 200 {array} dto.DebtResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts [get]
func (h *debtHandler) listDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListDebtsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	debts, err := h.debtService.ListDebts(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list debts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list debts"})
		return
	}

	now := time.Now()
	responses := make([]dto.DebtResponse, 0, len(debts))
	for i := range debts {
		responses = append(responses, dto.ToDebtResponse(&debts[i], nil, now))
	}
	c.JSON(http.StatusOK, responses)
}

// getDebt godoc
// @Summary Get a debt by ID
// @Description Retrieves one debt with its installment schedule.
// @Tags debts
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id} [get]
func (h *debtHandler) getDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	debtID := c.Param("id")

	debt, installments, err := h.debtService.GetDebt(c.Request.Context(), userID, debtID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
			return
		}
		logger.Error("Failed to get debt", slog.String("debt_id", debtID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve debt"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponse(debt, installments, time.Now()))
}

// cancelDebt godoc
// @Summary Cancel a debt
// @Description Marks a debt CANCELLED. Cancelling an already cancelled debt is a no-op; a fully paid debt cannot be cancelled.
// @Tags debts
// @Produce json
// @Param id path string true "Debt ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Debt is fully paid"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id} [delete]
func (h *debtHandler) cancelDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	debtID := c.Param("id")

	if err := h.debtService.CancelDebt(c.Request.Context(), userID, debtID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Debt not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to cancel debt", slog.String("debt_id", debtID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to cancel debt"})
		}
		return
	}

	logger.Info("Debt cancelled", slog.String("debt_id", debtID))
	c.Status(http.StatusNoContent)
}
