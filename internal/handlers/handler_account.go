package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// accountHandler serves the read-only chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvc
}

func newAccountHandler(as portssvc.AccountSvc) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts. Balance and activity
// routes under /accounts/:accountID belong to the reporting handler.
func registerAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvc) {
	h := newAccountHandler(as)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
	}
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Accounts ordered by code. When code is given at most one account is returned.
// @Tags accounts
// @Produce json
// @Param category query string false "ASSET, LIABILITY, EQUITY, REVENUE or EXPENSE"
// @Param activeOnly query bool false "Only active accounts"
// @Param code query string false "Exact account code"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	if params.Code != "" {
		account, err := h.accountService.GetAccountByCode(c.Request.Context(), params.Code)
		if err != nil {
			respondError(c, logger, err, "Failed to retrieve account")
			return
		}
		c.JSON(http.StatusOK, dto.ToListAccountsResponse([]domain.Account{*account}))
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	logger.Debug("Accounts listed", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} handlers.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(*account))
}
