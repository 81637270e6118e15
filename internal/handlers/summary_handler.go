package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// SummaryHandler handles dashboard and ledger read requests.
type SummaryHandler struct {
	summaryService services.SummaryServicer
	ledgerService  services.LedgerServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer, ledgerService services.LedgerServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, ledgerService: ledgerService}
}

// GetDashboard returns the dashboard read model
// @Summary     Get the dashboard
// @Description Current cycle, its totals and transactions, account balances, and category averages
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardSummary "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid cycle policy"
// @Router      /summary/dashboard [get]
func (h *SummaryHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.summaryService.GetDashboard(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

// GetLedger returns the full derived ledger
// @Summary     Get the ledger
// @Description Per-account balances, the running-balance history, and pending transactions
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ledger.Result "Derived ledger"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary/ledger [get]
func (h *SummaryHandler) GetLedger(c *gin.Context) {
	result, err := h.ledgerService.Compute(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": result.PerAccount,
		"history":  result.History,
		"pending":  result.Pending,
	})
}
