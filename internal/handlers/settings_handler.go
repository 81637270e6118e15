package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// SettingsHandler handles cycle policy requests.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// UpdateCycleSettingsRequest represents the payload for replacing the cycle policy
type UpdateCycleSettingsRequest struct {
	Frequency        string `json:"frequency" binding:"required,cycle_frequency"`
	StartDay         int    `json:"start_day"`
	MonthlyStartType string `json:"monthly_start_type" binding:"omitempty,monthly_start_type"`
}

// GetCycleSettings returns the stored cycle policy
// @Summary     Get cycle settings
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.CycleSettings "Cycle settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /settings/cycle [get]
func (h *SettingsHandler) GetCycleSettings(c *gin.Context) {
	settings, err := h.settingsService.GetCycleSettings()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateCycleSettings replaces the cycle policy
// @Summary     Update cycle settings
// @Description Replace the cycle policy; past cycles are reinterpreted under the new policy
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateCycleSettingsRequest true "New policy"
// @Success     200 {object} models.CycleSettings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /settings/cycle [put]
func (h *SettingsHandler) UpdateCycleSettings(c *gin.Context) {
	var req UpdateCycleSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateCycleSettings(
		models.CycleFrequency(req.Frequency),
		req.StartDay,
		models.MonthlyStartType(req.MonthlyStartType),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_CYCLE_SETTINGS", "cycle_settings", settings.ID, c.ClientIP(),
		map[string]interface{}{"frequency": req.Frequency, "start_day": req.StartDay})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetCurrentCycle resolves the cycle containing today
// @Summary     Get the current cycle
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} cycle.Cycle "Current cycle window"
// @Failure     400 {object} ErrorResponse "Invalid cycle policy"
// @Router      /settings/cycle/current [get]
func (h *SettingsHandler) GetCurrentCycle(c *gin.Context) {
	window, err := h.settingsService.CurrentCycle(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cycle": window, "key": window.Key()})
}
