package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvc
}

func registerPeriodRoutes(rg *gin.RouterGroup, ps portssvc.PeriodSvc) {
	h := &periodHandler{periodService: ps}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}

// createPeriod godoc
// @Summary Create an accounting period
// @Description Stores an OPEN period. Periods may not overlap.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreatePeriodRequest true "Period name and inclusive dates"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 409 {object} handlers.ErrorResponse "Overlapping period"
// @Security BearerAuth
// @Router /periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "accounting period")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req.ToDraft(), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create accounting period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce  json
// @Param   status query string false "OPEN or CLOSED"
// @Param   from query string false "Periods ending on or after (YYYY-MM-DD)"
// @Param   to query string false "Periods starting on or before (YYYY-MM-DD)"
// @Success 200 {object} dto.ListPeriodsResponse
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPeriodsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounting periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}

// getPeriod godoc
// @Summary Get an accounting period
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} handlers.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("period_id", c.Param("periodID")))

	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("periodID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve accounting period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close an accounting period
// @Description Posting into a closed period is refused until it is reopened.
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} handlers.ErrorResponse "Period not found"
// @Failure 409 {object} handlers.ErrorResponse "Period already closed"
// @Security BearerAuth
// @Router /periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("period_id", c.Param("periodID")))
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("periodID"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to close accounting period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// reopenPeriod godoc
// @Summary Reopen an accounting period
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} handlers.ErrorResponse "Period not found"
// @Failure 409 {object} handlers.ErrorResponse "Period is open"
// @Security BearerAuth
// @Router /periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("period_id", c.Param("periodID")))
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), c.Param("periodID"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to reopen accounting period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
