package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/dto"
	"github.com/finbooks/books_backend/internal/middleware"
)

const reportDateLayout = "2006-01-02"

// reportingHandler handles HTTP requests for the financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(reportingService portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)
	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.getDashboard)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/cash-flow", h.getCashFlow)
		reports.GET("/aging", h.getAging)
	}
}

// parsePeriod reads from/to query parameters as YYYY-MM-DD dates. When both
// are absent the trailing 30 days are used; a lone parameter is rejected.
func parsePeriod(c *gin.Context) (from, to time.Time, ok bool) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" && toStr == "" {
		to = time.Now().UTC()
		return to.AddDate(0, 0, -30), to, true
	}
	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both from and to are required"})
		return time.Time{}, time.Time{}, false
	}
	var err error
	if from, err = time.Parse(reportDateLayout, fromStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	if to, err = time.Parse(reportDateLayout, toStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	// Make the to date inclusive of its whole day.
	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to, true
}

// parseAsOf reads the asOf query parameter, defaulting to now.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	asOfStr := c.Query("asOf")
	if asOfStr == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse(reportDateLayout, asOfStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf.AddDate(0, 0, 1).Add(-time.Nanosecond), true
}

// getDashboard godoc
// @Summary Dashboard summary
// @Description Revenue, expenses, net income and invoice workload over a period
// @Tags reports
// @Produce  json
// @Param   from query string false "Period start (YYYY-MM-DD)"
// @Param   to query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.DashboardResponse
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, companyID, ok := identity(c)
	if !ok {
		return
	}
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.reportingService.GetDashboardSummary(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to build dashboard summary")
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{Summary: *summary})
}

// getProfitAndLoss godoc
// @Summary Profit and loss statement
// @Tags reports
// @Produce  json
// @Param   from query string false "Period start (YYYY-MM-DD)"
// @Param   to query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, companyID, ok := identity(c)
	if !ok {
		return
	}
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.GetProfitAndLoss(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to build profit and loss report")
		return
	}
	c.JSON(http.StatusOK, dto.ProfitAndLossResponse{Report: *report})
}

// getBalanceSheet godoc
// @Summary Balance sheet
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceSheetResponse
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, companyID, ok := identity(c)
	if !ok {
		return
	}
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.GetBalanceSheet(c.Request.Context(), companyID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to build balance sheet")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceSheetResponse{Report: *report})
}

// getCashFlow godoc
// @Summary Cash flow statement
// @Tags reports
// @Produce  json
// @Param   from query string false "Period start (YYYY-MM-DD)"
// @Param   to query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.CashFlowResponse
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, companyID, ok := identity(c)
	if !ok {
		return
	}
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.GetCashFlow(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to build cash flow report")
		return
	}
	c.JSON(http.StatusOK, dto.CashFlowResponse{Report: *report})
}

// getAging godoc
// @Summary Receivables aging report
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.AgingResponse
// @Router /reports/aging [get]
func (h *reportingHandler) getAging(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, companyID, ok := identity(c)
	if !ok {
		return
	}
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.GetReceivablesAging(c.Request.Context(), companyID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to build aging report")
		return
	}
	c.JSON(http.StatusOK, dto.AgingResponse{Report: *report})
}
