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

// recurrenceHandler handles HTTP requests related to recurrences and their
// generation audit trail.
type recurrenceHandler struct {
	recurrenceService portssvc.RecurrenceSvcFacade
	generationService portssvc.GenerationSvcFacade
}

func newRecurrenceHandler(rs portssvc.RecurrenceSvcFacade, gs portssvc.GenerationSvcFacade) *recurrenceHandler {
	return &recurrenceHandler{
		recurrenceService: rs,
		generationService: gs,
	}
}

// registerRecurrenceRoutes registers all recurrence-related routes.
func registerRecurrenceRoutes(rg *gin.RouterGroup, recurrenceService portssvc.RecurrenceSvcFacade, generationService portssvc.GenerationSvcFacade) {
	h := newRecurrenceHandler(recurrenceService, generationService)

	recurrences := rg.Group("/recurrences")
	{
		recurrences.POST("", h.createRecurrence)
		recurrences.GET("", h.listRecurrences)
		recurrences.GET("/:id", h.getRecurrence)
		recurrences.PUT("/:id", h.updateRecurrence)
		recurrences.GET("/:id/records", h.listGenerationRecords)
		recurrences.GET("/:id/records/:date", h.getGenerationRecord)
		recurrences.POST("/trigger", h.triggerRecurrenceCheck)
	}
}

// createRecurrence godoc
// @Summary Create a recurrence
// @Description Creates a monthly recurrence template. Impossible dates are clamped to the last day of the month at generation time.
// @Tags recurrences
// @Accept json
// @Produce json
// @Param recurrence body dto.CreateRecurrenceRequest true "Recurrence details"
// @Success 201 {object} dto.RecurrenceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Instrument not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurrences [post]
func (h *recurrenceHandler) createRecurrence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	recurrence, err := h.recurrenceService.CreateRecurrence(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
		default:
			logger.Error("Failed to create recurrence", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create recurrence"})
		}
		return
	}

	logger.Info("Recurrence created", slog.String("recurrence_id", recurrence.RecurrenceID))
	c.JSON(http.StatusCreated, dto.ToRecurrenceResponse(recurrence))
}

// listRecurrences godoc
// @Summary List recurrences
// @Description Lists the user's recurrences, optionally only active ones.
// @Tags recurrences
// @Produce json
// @Param active query bool false "Only active recurrences"
// @Success 200 {array} dto.RecurrenceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurrences [get]
func (h *recurrenceHandler) listRecurrences(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	activeOnly := c.Query("active") == "true"

	recurrences, err := h.recurrenceService.ListRecurrences(c.Request.Context(), userID, activeOnly)
	if err != nil {
		logger.Error("Failed to list recurrences", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list recurrences"})
		return
	}

	responses := make([]dto.RecurrenceResponse, 0, len(recurrences))
	for i := range recurrences {
		responses = append(responses, dto.ToRecurrenceResponse(&recurrences[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// getRecurrence godoc
// @Summary Get a recurrence by ID
// @Tags recurrences
// @Produce json
// @Param id path string true "Recurrence ID"
// @Success 200 {object} dto.RecurrenceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurrences/{id} [get]
func (h *recurrenceHandler) getRecurrence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	recurrenceID := c.Param("id")

	recurrence, err := h.recurrenceService.GetRecurrence(c.Request.Context(), userID, recurrenceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Recurrence not found"})
			return
		}
		logger.Error("Failed to get recurrence", slog.String("recurrence_id", recurrenceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve recurrence"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurrenceResponse(recurrence))
}

// updateRecurrence godoc
// @Summary Update a recurrence
// @Description Updates the mutable fields of a recurrence (description, day of month, end date, active flag).
// @Tags recurrences
// @Accept json
// @Produce json
// @Param id path string true "Recurrence ID"
// @Param recurrence body dto.UpdateRecurrenceRequest true "Fields to update"
// @Success 200 {object} dto.RecurrenceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurrences/{id} [put]
func (h *recurrenceHandler) updateRecurrence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	recurrenceID := c.Param("id")

	var req dto.UpdateRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	recurrence, err := h.recurrenceService.UpdateRecurrence(c.Request.Context(), userID, recurrenceID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Recurrence not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update recurrence", slog.String("recurrence_id", recurrenceID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update recurrence"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurrenceResponse(recurrence))
}

// listGenerationRecords godoc
// @Summary List generation records for a recurrence
// @Description Lists the audit trail of materialized occurrences, newest first.
// @Tags recurrences
// @Produce json
// @Param id path string true "Recurrence ID"
// @Success 200 {array} dto.GenerationRecordResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurrences/{id}/records [get]
func (h *recurrenceHandler) listGenerationRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	recurrenceID := c.Param("id")

	records, err := h.generationService.ListGenerationRecords(c.Request.Context(), userID, recurrenceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Recurrence not found"})
			return
		}
		logger.Error("Failed to list generation records", slog.String("recurrence_id", recurrenceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list generation records"})
		return
	}

	responses := make([]dto.GenerationRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, dto.ToGenerationRecordResponse(&records[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// getGenerationRecord godoc
// @Summary Get a generation record
// @Description Retrieves the generation record for a single occurrence, keyed by its scheduled date (YYYY-MM-DD).
// @Tags recurrences
// @Produce json
// @Param id path string true "Recurrence ID"
// @Param date path string true "Scheduled date (YYYY-MM-DD)"
// @Success 200 {object} dto.GenerationRecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurrences/{id}/records/{date} [get]
func (h *recurrenceHandler) getGenerationRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	recurrenceID := c.Param("id")

	scheduledDate, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid scheduled date, expected YYYY-MM-DD"})
		return
	}

	record, err := h.generationService.GetGenerationRecord(c.Request.Context(), userID, recurrenceID, scheduledDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Generation record not found"})
			return
		}
		logger.Error("Failed to retrieve generation record", slog.String("recurrence_id", recurrenceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve generation record"})
		return
	}

	c.JSON(http.StatusOK, dto.ToGenerationRecordResponse(record))
}

// triggerRecurrenceCheck godoc
// @Summary Trigger a recurrence generation pass
// @Description Evaluates all active recurrences due as of now and materializes the due ones. Idempotent; a concurrent or repeated trigger generates each occurrence at most once.
// @Tags recurrences
// @Produce json
// @Success 200 {object} dto.TriggerRecurrenceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurrences/trigger [post]
func (h *recurrenceHandler) triggerRecurrenceCheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.generationService.TriggerRecurrenceCheck(c.Request.Context(), time.Now())
	if err != nil {
		logger.Error("Recurrence trigger failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to run recurrence check"})
		return
	}

	c.JSON(http.StatusOK, result)
}
