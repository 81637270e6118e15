package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// ProgressHandler handles gamified progress requests.
type ProgressHandler struct {
	progressService services.ProgressServicer
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService services.ProgressServicer) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetProfile returns the level, XP, and achievements
// @Summary     Get the progress profile
// @Tags        progress
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ProfileView "Profile"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /progress [get]
func (h *ProgressHandler) GetProfile(c *gin.Context) {
	profile, err := h.progressService.GetProfile()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
