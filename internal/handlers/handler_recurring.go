package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// recurringHandler handles HTTP requests related to recurring entry templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvc
	now              func() time.Time
}

func registerRecurringRoutes(rg *gin.RouterGroup, rs portssvc.RecurringSvc) {
	h := &recurringHandler{recurringService: rs, now: time.Now}

	templates := rg.Group("/recurring-entries")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.POST("/generate", h.generateDue)
		templates.GET("/:templateID", h.getTemplate)
		templates.POST("/:templateID/approve", h.approveTemplate)
		templates.POST("/:templateID/suspend", h.suspendTemplate)
		templates.POST("/:templateID/reactivate", h.reactivateTemplate)
	}
}

// createTemplate godoc
// @Summary Create a recurring entry template
// @Description Validates and stores a DRAFT template. Every violated rule is reported.
// @Tags recurring-entries
// @Accept  json
// @Produce  json
// @Param   template body dto.RecurringTemplateRequest true "Schedule and lines"
// @Success 201 {object} dto.RecurringTemplateResponse
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 409 {object} handlers.ErrorResponse "Duplicate code"
// @Security BearerAuth
// @Router /recurring-entries [post]
func (h *recurringHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "recurring template")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	template, err := h.recurringService.CreateTemplate(c.Request.Context(), req.ToDraft(), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create recurring template")
		return
	}
	logger.Info("Recurring template created", slog.String("template_id", template.TemplateID))
	c.JSON(http.StatusCreated, dto.ToRecurringTemplateResponse(template))
}

// listTemplates godoc
// @Summary List recurring entry templates
// @Tags recurring-entries
// @Produce  json
// @Param   status query string false "DRAFT, APPROVED, SUSPENDED or EXPIRED"
// @Param   dueBy query string false "Only approved templates due on or before (YYYY-MM-DD)"
// @Success 200 {object} dto.ListTemplatesResponse
// @Security BearerAuth
// @Router /recurring-entries [get]
func (h *recurringHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTemplatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	templates, err := h.recurringService.ListTemplates(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, logger, err, "Failed to list recurring templates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTemplatesResponse(templates))
}

// getTemplate godoc
// @Summary Get a recurring entry template
// @Tags recurring-entries
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.RecurringTemplateResponse
// @Failure 404 {object} handlers.ErrorResponse "Template not found"
// @Security BearerAuth
// @Router /recurring-entries/{templateID} [get]
func (h *recurringHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("template_id", c.Param("templateID")))

	template, err := h.recurringService.GetTemplate(c.Request.Context(), c.Param("templateID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve recurring template")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringTemplateResponse(template))
}

// approveTemplate godoc
// @Summary Approve a recurring entry template
// @Tags recurring-entries
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.RecurringTemplateResponse
// @Failure 409 {object} handlers.ErrorResponse "Template is not a draft"
// @Security BearerAuth
// @Router /recurring-entries/{templateID}/approve [post]
func (h *recurringHandler) approveTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("template_id", c.Param("templateID")))
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	template, err := h.recurringService.ApproveTemplate(c.Request.Context(), c.Param("templateID"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to approve recurring template")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringTemplateResponse(template))
}

// suspendTemplate godoc
// @Summary Suspend a recurring entry template
// @Tags recurring-entries
// @Accept  json
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Param   body body dto.SuspendTemplateRequest true "Suspension reason"
// @Success 200 {object} dto.RecurringTemplateResponse
// @Failure 409 {object} handlers.ErrorResponse "Template cannot be suspended"
// @Security BearerAuth
// @Router /recurring-entries/{templateID}/suspend [post]
func (h *recurringHandler) suspendTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("template_id", c.Param("templateID")))
	var req dto.SuspendTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "suspension request")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	template, err := h.recurringService.SuspendTemplate(c.Request.Context(), c.Param("templateID"), req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to suspend recurring template")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringTemplateResponse(template))
}

// reactivateTemplate godoc
// @Summary Reactivate a suspended recurring entry template
// @Tags recurring-entries
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.RecurringTemplateResponse
// @Failure 409 {object} handlers.ErrorResponse "Template is not suspended"
// @Security BearerAuth
// @Router /recurring-entries/{templateID}/reactivate [post]
func (h *recurringHandler) reactivateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("template_id", c.Param("templateID")))
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	template, err := h.recurringService.ReactivateTemplate(c.Request.Context(), c.Param("templateID"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to reactivate recurring template")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringTemplateResponse(template))
}

// generateDue godoc
// @Summary Generate due recurring entries
// @Description Creates a DRAFT entry for every due occurrence up to asOf. Runs on a schedule when the worker is enabled.
// @Tags recurring-entries
// @Accept  json
// @Produce  json
// @Param   body body dto.GenerateRecurringRequest false "Run date"
// @Success 200 {object} domain.RecurringRun
// @Security BearerAuth
// @Router /recurring-entries/generate [post]
func (h *recurringHandler) generateDue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateRecurringRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, logger, err, "generation request")
			return
		}
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}
	asOf := req.AsOf.Time
	if asOf.IsZero() {
		asOf = h.now().UTC()
	}

	run, err := h.recurringService.GenerateDue(c.Request.Context(), asOf, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate recurring entries")
		return
	}
	logger.Info("Recurring entries generated",
		slog.Int("generated", len(run.Generated)),
		slog.Int("failed", len(run.Failed)))
	c.JSON(http.StatusOK, run)
}
