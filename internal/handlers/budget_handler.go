package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService   services.BudgetServicer
	progressService services.ProgressServicer
	auditService    services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, progressService services.ProgressServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{
		budgetService:   budgetService,
		progressService: progressService,
		auditService:    auditService,
	}
}

// CreateBudgetRequest represents the payload for creating a category budget
type CreateBudgetRequest struct {
	CategoryID string `json:"category_id" binding:"required,uuid"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Cycle      string `json:"cycle" binding:"required"`
}

// UpdateBudgetRequest represents the payload for updating a budget amount
type UpdateBudgetRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// SaveOverallBudgetRequest represents the payload for the cycle-wide cap
type SaveOverallBudgetRequest struct {
	Cycle  string `json:"cycle" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// ListBudgetsQuery represents the query parameters for listing budgets
type ListBudgetsQuery struct {
	pagination.PageRequest
	Cycle string `form:"cycle"`
}

// CreateBudget creates or replaces a category budget for one cycle
// @Summary     Create a budget
// @Description Budget a category for one cycle; creating again replaces the amount
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	existingPage, err := h.budgetService.GetBudgets(pagination.PageRequest{Page: 1, PageSize: 1}, nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(req.CategoryID, req.Amount, req.Cycle)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.progressService.OnBudgetCreated(existingPage.TotalItems)
	h.auditService.Log("CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"cycle": req.Cycle, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// ListBudgets returns budgets with pagination
// @Summary     List budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       cycle query string false "Filter by cycle key (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	var query ListBudgetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var cycleKey *string
	if query.Cycle != "" {
		cycleKey = &query.Cycle
	}

	page, err := h.budgetService.GetBudgets(query.PageRequest, cycleKey)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetBudgetProgress returns spending vs budget for one budget's cycle
// @Summary     Get budget progress
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetProgress "Progress"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/{id}/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.budgetService.GetBudgetProgress(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// UpdateBudget changes a budget's amount
// @Summary     Update a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Param       request body UpdateBudgetRequest true "New amount"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/{id} [patch]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(id, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_BUDGET", "budget", id, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget removes a budget
// @Summary     Delete a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_BUDGET", "budget", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// SaveOverallBudget creates or replaces the cycle-wide spending cap
// @Summary     Save the overall budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SaveOverallBudgetRequest true "Cap details"
// @Success     200 {object} models.OverallBudget "Overall budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets/overall [put]
func (h *BudgetHandler) SaveOverallBudget(c *gin.Context) {
	var req SaveOverallBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	_, err := h.budgetService.GetOverallBudget(req.Cycle)
	firstForCycle := errors.Is(err, apperrors.ErrOverallBudgetNotFound)

	overall, err := h.budgetService.SaveOverallBudget(req.Cycle, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.progressService.OnOverallBudgetCreated(firstForCycle)
	h.auditService.Log("SAVE_OVERALL_BUDGET", "overall_budget", overall.ID, c.ClientIP(),
		map[string]interface{}{"cycle": req.Cycle, "amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"overall_budget": overall})
}

// GetOverallBudget returns the cycle-wide cap for one cycle
// @Summary     Get the overall budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       cycle path string true "Cycle key (YYYY-MM-DD)"
// @Success     200 {object} models.OverallBudget "Overall budget"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/overall/{cycle} [get]
func (h *BudgetHandler) GetOverallBudget(c *gin.Context) {
	overall, err := h.budgetService.GetOverallBudget(c.Param("cycle"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overall_budget": overall})
}

// DeleteOverallBudget removes the cycle-wide cap for one cycle
// @Summary     Delete the overall budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       cycle path string true "Cycle key (YYYY-MM-DD)"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/overall/{cycle} [delete]
func (h *BudgetHandler) DeleteOverallBudget(c *gin.Context) {
	if err := h.budgetService.DeleteOverallBudget(c.Param("cycle")); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_OVERALL_BUDGET", "overall_budget", "", c.ClientIP(),
		map[string]interface{}{"cycle": c.Param("cycle")})

	c.Status(http.StatusNoContent)
}
