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

// reportingHandler handles HTTP requests related to balances and financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		now:              time.Now,
	}
}

// registerReportingRoutes registers report routes and the per-account balance routes
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/cash-flow", h.getCashFlowStatement)
	}

	accounts := rg.Group("/accounts/:accountID")
	{
		accounts.GET("/balance", h.getAccountBalance)
		accounts.GET("/activity", h.getAccountActivity)
	}
}

// asOfOrToday defaults a missing report date to today's UTC date.
func (h *reportingHandler) asOfOrToday(asOf *time.Time) time.Time {
	if asOf != nil {
		return *asOf
	}
	now := h.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// getAccountBalance godoc
// @Summary Account balance as of a date
// @Description Balance on the account's normal side including every row posted on or before asOf.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param asOf query string false "Balance date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} handlers.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *reportingHandler) getAccountBalance(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	asOf := h.asOfOrToday(params.AsOf)

	balance, err := h.reportingService.AccountBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate account balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: accountID,
		AsOf:      dto.FormatDate(asOf),
		Balance:   balance,
	})
}

// getAccountActivity godoc
// @Summary Net account movement over a period
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param from query string true "Exclusive start date (YYYY-MM-DD)"
// @Param to query string true "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountActivityResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid period"
// @Failure 404 {object} handlers.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/activity [get]
func (h *reportingHandler) getAccountActivity(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	activity, err := h.reportingService.PeriodActivity(c.Request.Context(), accountID, params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate account activity")
		return
	}

	c.JSON(http.StatusOK, dto.AccountActivityResponse{
		AccountID: accountID,
		From:      dto.FormatDate(params.From),
		To:        dto.FormatDate(params.To),
		Activity:  activity,
	})
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} handlers.ErrorResponse "Invalid input"
// @Failure 500 {object} handlers.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	asOf := h.asOfOrToday(params.AsOf)
	logger = logger.With(slog.String("asOf", dto.FormatDate(asOf)))
	logger.Info("Received request to generate trial balance report")

	report, err := h.reportingService.GenerateTrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully",
		slog.Int("row_count", len(report.Rows)),
		slog.Bool("balanced", report.IsBalanced))
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Generate income statement
// @Description Revenue and expense activity over (from, to], optionally against a comparative period
// @Tags reports
// @Produce json
// @Param from query string true "Exclusive start date (YYYY-MM-DD)"
// @Param to query string true "Inclusive end date (YYYY-MM-DD)"
// @Param compareFrom query string false "Comparative start date (YYYY-MM-DD)"
// @Param compareTo query string false "Comparative end date (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatement
// @Failure 400 {object} handlers.ErrorResponse "Invalid input"
// @Failure 500 {object} handlers.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.IncomeStatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	logger = logger.With(
		slog.String("from", dto.FormatDate(params.From)),
		slog.String("to", dto.FormatDate(params.To)),
	)
	logger.Info("Received request to generate income statement")

	report, err := h.reportingService.GenerateIncomeStatement(c.Request.Context(), params.Period(), params.ComparativePeriod())
	if err != nil {
		respondError(c, logger, err, "Failed to generate income statement")
		return
	}

	logger.Info("Income statement generated successfully",
		slog.String("net_income", report.Totals.NetIncome.StringFixed(2)),
		slog.Int("warnings", len(report.Warnings)))
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Generates a balance sheet report as of a specific date, optionally against a comparative date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Param compareTo query string false "Comparative date (YYYY-MM-DD)"
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} handlers.ErrorResponse "Invalid input"
// @Failure 500 {object} handlers.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BalanceSheetParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	asOf := h.asOfOrToday(params.AsOf)
	logger = logger.With(slog.String("asOf", dto.FormatDate(asOf)))
	logger.Info("Received request to generate balance sheet report")

	report, err := h.reportingService.GenerateBalanceSheet(c.Request.Context(), asOf, params.CompareTo)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet report")
		return
	}

	logger.Info("Balance sheet report generated successfully",
		slog.Int("asset_subsections", len(report.Assets.Subsections)),
		slog.Bool("balanced", report.IsBalanced))
	c.JSON(http.StatusOK, report)
}

// getCashFlowStatement godoc
// @Summary Generate cash flow statement
// @Description Operating, investing and financing cash flows over (from, to] with beginning and ending cash
// @Tags reports
// @Produce json
// @Param from query string true "Exclusive start date (YYYY-MM-DD)"
// @Param to query string true "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} domain.CashFlowStatement
// @Failure 400 {object} handlers.ErrorResponse "Invalid input"
// @Failure 500 {object} handlers.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlowStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	logger = logger.With(
		slog.String("from", dto.FormatDate(params.From)),
		slog.String("to", dto.FormatDate(params.To)),
	)

	report, err := h.reportingService.GenerateCashFlowStatement(c.Request.Context(), params.Period())
	if err != nil {
		respondError(c, logger, err, "Failed to generate cash flow statement")
		return
	}

	logger.Info("Cash flow statement generated successfully",
		slog.String("net_cash_flow", report.NetCashFlow.StringFixed(2)),
		slog.Int("warnings", len(report.Warnings)))
	c.JSON(http.StatusOK, report)
}
