package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finman-app/finman_backend/internal/apperrors"
	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
	"github.com/finman-app/finman_backend/internal/dto"
	"github.com/finman-app/finman_backend/internal/middleware"
)

// instrumentHandler handles HTTP requests related to financial instruments.
type instrumentHandler struct {
	instrumentService portssvc.InstrumentSvcFacade
}

func newInstrumentHandler(is portssvc.InstrumentSvcFacade) *instrumentHandler {
	return &instrumentHandler{instrumentService: is}
}

// registerInstrumentRoutes registers all instrument-related routes.
func registerInstrumentRoutes(rg *gin.RouterGroup, instrumentService portssvc.InstrumentSvcFacade) {
	h := newInstrumentHandler(instrumentService)

	instruments := rg.Group("/instruments")
	{
		instruments.POST("", h.createInstrument)
		instruments.GET("", h.listInstruments)
		instruments.GET("/:id", h.getInstrument)
	}
}

// createInstrument godoc
// @Summary Create a financial instrument
// @Tags instruments
// @Accept json
// @Produce json
// @Param instrument body dto.CreateInstrumentRequest true "Instrument details"
// @Success 201 {object} dto.InstrumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments [post]
func (h *instrumentHandler) createInstrument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	instrument, err := h.instrumentService.CreateInstrument(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create instrument", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create instrument"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToInstrumentResponse(instrument))
}

// listInstruments godoc
// @Summary List financial instruments
// @Tags instruments
// @Produce json
// @Success 200 {array} dto.InstrumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments [get]
func (h *instrumentHandler) listInstruments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	instruments, err := h.instrumentService.ListInstruments(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list instruments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list instruments"})
		return
	}

	responses := make([]dto.InstrumentResponse, 0, len(instruments))
	for i := range instruments {
		responses = append(responses, dto.ToInstrumentResponse(&instruments[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// getInstrument godoc
// @Summary Get a financial instrument by ID
// @Tags instruments
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} dto.InstrumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id} [get]
func (h *instrumentHandler) getInstrument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	instrumentID := c.Param("id")

	instrument, err := h.instrumentService.GetInstrument(c.Request.Context(), userID, instrumentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Instrument not found"})
			return
		}
		logger.Error("Failed to get instrument", slog.String("instrument_id", instrumentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve instrument"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInstrumentResponse(instrument))
}
