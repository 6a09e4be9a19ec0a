package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// ledgerHandler exposes read access to general ledger rows.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvc
}

func newLedgerHandler(ls portssvc.LedgerSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to the general ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvc) {
	h := newLedgerHandler(ls)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/rows", h.listRows)
	}
}

// listRows godoc
// @Summary Page through general ledger rows
// @Description Rows are ordered by posting date then sequence. Pass nextPageToken back as pageToken.
// @Tags ledger
// @Produce json
// @Param accountID query string false "Restrict to one account"
// @Param from query string false "Inclusive lower posting date (YYYY-MM-DD)"
// @Param to query string false "Inclusive upper posting date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(100)
// @Param pageToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgerRowsResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid query or page token"
// @Security BearerAuth
// @Router /ledger/rows [get]
func (h *ledgerHandler) listRows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLedgerRowsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	rows, next, err := h.ledgerService.ListRows(c.Request.Context(), params.ToFilter(), params.PageToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list ledger rows")
		return
	}

	logger.Debug("Ledger rows listed", slog.Int("count", len(rows)), slog.Bool("has_more", next != ""))
	c.JSON(http.StatusOK, dto.ToListLedgerRowsResponse(rows, next))
}
