package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/config"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// AuthHandler handles session authentication for the single configured user.
type AuthHandler struct {
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{auditService: auditService}
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// Login verifies the configured password and issues a session token
// @Summary     Log in
// @Description Exchange the configured password for a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} LoginResponse "Session token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid password"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	hash := config.Get().AuthPasswordHash
	if hash == "" {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		h.auditService.Log("LOGIN_FAILED", "session", "", c.ClientIP(), nil)
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := middleware.GenerateSessionToken()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log("LOGIN", "session", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, LoginResponse{Token: token})
}
