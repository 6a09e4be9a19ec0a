package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries and their workflow.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	postingService portssvc.PostingSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade, ps portssvc.PostingSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
		postingService: ps,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, js portssvc.JournalSvcFacade, ps portssvc.PostingSvcFacade) {
	h := newJournalHandler(js, ps)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:entryID", h.getJournalEntry)
		entries.PUT("/:entryID", h.updateJournalEntry)
		entries.DELETE("/:entryID", h.deleteJournalEntry)
		entries.POST("/:entryID/approve", h.approveJournalEntry)
		entries.POST("/:entryID/reject", h.rejectJournalEntry)
		entries.POST("/:entryID/post", h.postJournalEntry)
		entries.POST("/:entryID/reverse", h.reverseJournalEntry)
	}
}

// createJournalEntry godoc
// @Summary Create a draft journal entry
// @Description Validates and stores a new DRAFT entry. Every violated rule is reported.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.JournalEntryRequest true "Entry header and lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Failed to create journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "journal entry")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create journal entry", slog.Int("line_count", len(req.Lines)))

	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), req.ToDraft(), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} handlers.ErrorResponse "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", c.Param("entryID")))

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first, optionally by status and entry date window.
// @Tags journal-entries
// @Produce  json
// @Param   status query string false "DRAFT, APPROVED, REJECTED or POSTED"
// @Param   from query string false "First entry date (YYYY-MM-DD)"
// @Param   to query string false "Last entry date (YYYY-MM-DD)"
// @Param   limit query int false "Maximum entries" default(50)
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	entries, err := h.journalService.ListJournalEntries(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}

	logger.Info("Journal entries listed", slog.Int("count", len(entries)))
	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(entries))
}

// updateJournalEntry godoc
// @Summary Replace a draft journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.JournalEntryRequest true "Entry header and lines"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 404 {object} handlers.ErrorResponse "Entry not found"
// @Failure 409 {object} handlers.ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [put]
func (h *journalHandler) updateJournalEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "journal entry")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.UpdateJournalEntry(c.Request.Context(), entryID, req.ToDraft(), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to update journal entry")
		return
	}

	logger.Info("Journal entry updated", slog.Int64("version", entry.Version))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteJournalEntry godoc
// @Summary Delete a draft journal entry
// @Tags journal-entries
// @Param   entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} handlers.ErrorResponse "Entry not found"
// @Failure 409 {object} handlers.ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [delete]
func (h *journalHandler) deleteJournalEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	if err := h.journalService.DeleteJournalEntry(c.Request.Context(), entryID, actorID); err != nil {
		respondError(c, logger, err, "Failed to delete journal entry")
		return
	}

	logger.Info("Journal entry deleted")
	c.Status(http.StatusNoContent)
}

// approveJournalEntry godoc
// @Summary Approve a draft journal entry
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} handlers.ErrorResponse "Entry no longer valid"
// @Failure 409 {object} handlers.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/approve [post]
func (h *journalHandler) approveJournalEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.ApproveJournalEntry(c.Request.Context(), entryID, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to approve journal entry")
		return
	}

	logger.Info("Journal entry approved")
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// rejectJournalEntry godoc
// @Summary Reject a draft journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   body body dto.RejectJournalEntryRequest true "Rejection reason"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} handlers.ErrorResponse "Reason required"
// @Failure 409 {object} handlers.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/reject [post]
func (h *journalHandler) rejectJournalEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	var req dto.RejectJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "rejection request")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.RejectJournalEntry(c.Request.Context(), entryID, req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to reject journal entry")
		return
	}

	logger.Info("Journal entry rejected")
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postJournalEntry godoc
// @Summary Post an approved journal entry to the general ledger
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} handlers.ErrorResponse "Entry no longer valid"
// @Failure 409 {object} handlers.ErrorResponse "Entry not approved or concurrently posted"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/post [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	entry, err := h.postingService.PostJournalEntry(c.Request.Context(), entryID, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.Int("line_count", len(entry.Lines)))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseJournalEntry godoc
// @Summary Reverse a posted journal entry
// @Description Creates and posts an entry with every line's sides swapped. Returns the reversing entry.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   body body dto.ReverseJournalEntryRequest true "Reversal date and reason"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid reversal"
// @Failure 409 {object} handlers.ErrorResponse "Entry not posted or already reversed"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "reversal request")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	reversal, err := h.postingService.ReverseJournalEntry(c.Request.Context(), entryID, req.ReversalDate.Time, req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("reversing_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
