package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
	"github.com/opsdash/ledgercore/internal/middleware"
)

// reportingHandler handles HTTP requests for derived financial statements.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the statement endpoints.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/cash-flow", h.cashFlow)
	}
}

// trialBalance godoc
// @Summary Trial balance
// @Description Every account's net balance in its debit or credit column; the column totals must be equal
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), default today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 500 {object} map[string]string "Reconciliation failure"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	asOf, ok := bindAsOf(c)
	if !ok {
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Trial balance failed", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to build trial balance")
		return
	}
	c.JSON(200, dto.ToTrialBalanceResponse(tb))
}

// balanceSheet godoc
// @Summary Balance sheet
// @Description Assets, liabilities and equity as of a date; assets must equal liabilities plus equity
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), default today"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 500 {object} map[string]string "Reconciliation failure"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	asOf, ok := bindAsOf(c)
	if !ok {
		return
	}

	bs, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Balance sheet failed", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to build balance sheet")
		return
	}
	c.JSON(200, dto.ToBalanceSheetResponse(bs))
}

// incomeStatement godoc
// @Summary Income statement
// @Description Revenue and expense flows over a date range with gross profit and net income
// @Tags reports
// @Produce  json
// @Param   start query string true "Range start (YYYY-MM-DD)"
// @Param   end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} map[string]string "Bad date range"
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	is, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Income statement failed", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to build income statement")
		return
	}
	c.JSON(200, dto.ToIncomeStatementResponse(is))
}

// cashFlow godoc
// @Summary Cash-flow statement
// @Description Indirect-method cash flow; the net must equal the change in cash balances
// @Tags reports
// @Produce  json
// @Param   start query string true "Range start (YYYY-MM-DD)"
// @Param   end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 500 {object} map[string]string "Reconciliation failure"
// @Router /reports/cash-flow [get]
func (h *reportingHandler) cashFlow(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	cf, err := h.reportingService.CashFlow(c.Request.Context(), from, to)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Cash flow failed", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to build cash-flow statement")
		return
	}
	c.JSON(200, dto.ToCashFlowResponse(cf))
}
