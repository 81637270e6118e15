package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// RecurringHandler handles recurring rule requests.
type RecurringHandler struct {
	recurringService services.RecurringServicer
	progressService  services.ProgressServicer
	auditService     services.AuditServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer, progressService services.ProgressServicer, auditService services.AuditServicer) *RecurringHandler {
	return &RecurringHandler{
		recurringService: recurringService,
		progressService:  progressService,
		auditService:     auditService,
	}
}

// CreateRuleRequest represents the payload for creating a recurring rule
type CreateRuleRequest struct {
	Description string `json:"description" binding:"required,min=1,max=200"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Type        string `json:"type" binding:"required,oneof=income expense"`
	AccountID   string `json:"account_id" binding:"required,uuid"`
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	Frequency   string `json:"frequency" binding:"required,rule_frequency"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	IsVariable  bool   `json:"is_variable"`
}

// UpdateRuleRequest represents the payload for a partial rule update
type UpdateRuleRequest struct {
	Description *string `json:"description" binding:"omitempty,min=1,max=200"`
	Amount      *int64  `json:"amount" binding:"omitempty,gt=0"`
	AccountID   *string `json:"account_id" binding:"omitempty,uuid"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	EndDate     *string `json:"end_date"`
	IsVariable  *bool   `json:"is_variable"`
	IsActive    *bool   `json:"is_active"`
}

// CreateRule creates a recurring rule
// @Summary     Create a recurring rule
// @Description Describe an income or expense that repeats on a schedule
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRuleRequest true "Rule details"
// @Success     201 {object} models.RecurringRule "Rule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	params := services.RuleParams{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Frequency:   models.RuleFrequency(req.Frequency),
		StartDate:   startDate,
		IsVariable:  req.IsVariable,
	}
	if req.EndDate != "" {
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		params.EndDate = &endDate
	}

	existingPage, err := h.recurringService.GetRules(pagination.PageRequest{Page: 1, PageSize: 1})
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.CreateRule(params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.progressService.OnRecurringRuleCreated(existingPage.TotalItems)
	h.auditService.Log("CREATE_RULE", "recurring_rule", rule.ID, c.ClientIP(),
		map[string]interface{}{"frequency": req.Frequency, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

// ListRules returns recurring rules with pagination
// @Summary     List recurring rules
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.RecurringRule] "Rules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recurring [get]
func (h *RecurringHandler) ListRules(c *gin.Context) {
	var query pagination.PageRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	page, err := h.recurringService.GetRules(query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetRule returns a single recurring rule
// @Summary     Get a recurring rule
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Success     200 {object} models.RecurringRule "Rule"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /recurring/{id} [get]
func (h *RecurringHandler) GetRule(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.GetRuleByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// UpdateRule applies a partial update to a rule
// @Summary     Update a recurring rule
// @Description Update rule fields; the schedule (frequency and start date) is immutable
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Param       request body UpdateRuleRequest true "Fields to update"
// @Success     200 {object} models.RecurringRule "Updated rule"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /recurring/{id} [patch]
func (h *RecurringHandler) UpdateRule(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.RuleUpdateFields{
		Description: req.Description,
		Amount:      req.Amount,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		IsVariable:  req.IsVariable,
		IsActive:    req.IsActive,
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.EndDate = &endDate
	}

	rule, err := h.recurringService.UpdateRule(id, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_RULE", "recurring_rule", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// DeleteRule removes a recurring rule
// @Summary     Delete a recurring rule
// @Description Rules that generated transactions require confirmed=true; generated transactions stay in the ledger
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Param       confirmed query bool false "Confirm deletion of a rule with generated transactions"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Rule has generated transactions"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRule(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	confirmed := c.Query("confirmed") == "true"

	if err := h.recurringService.DeleteRule(id, confirmed); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_RULE", "recurring_rule", id, c.ClientIP(),
		map[string]interface{}{"confirmed": confirmed})

	c.Status(http.StatusNoContent)
}

// CatchUp materializes all due occurrences of every rule
// @Summary     Run recurring catch-up
// @Description Materialize every due occurrence of every rule up to now
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int "Number of transactions created"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/catch-up [post]
func (h *RecurringHandler) CatchUp(c *gin.Context) {
	created, err := h.recurringService.CatchUp(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created})
}
