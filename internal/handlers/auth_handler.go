package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"santimsentry/internal/config"
	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/logger"
	"santimsentry/internal/middleware"
	"santimsentry/internal/services"
)

// AuthHandler handles registration, login, and the /auth/me profile surface.
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest represents the request payload for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateMeRequest represents the request payload for profile updates.
type UpdateMeRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// issueToken generates a session token and records its hash. Session
// bookkeeping is best-effort; a failed insert never blocks the login.
func (h *AuthHandler) issueToken(userID uint) (string, error) {
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expiresAt := time.Now().Add(config.Get().JWTExpirationDur)
	if err := h.userService.RecordSession(user.ID, middleware.HashToken(token), expiresAt); err != nil {
		logger.Get().Warnw("failed to record session", "error", err, "user_id", user.ID)
	}

	return token, nil
}

// Register handles new user registration
// @Summary     Register a new user
// @Description Create an account with name, email, and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Registration details"
// @Success     201 {object} map[string]interface{} "User and session token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login handles credential login
// @Summary     Log in
// @Description Exchange email and password for a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} map[string]interface{} "User and session token"
// @Failure     400 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me returns the current user's profile
// @Summary     Current user
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe updates the current user's profile
// @Summary     Update current user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateMeRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(userID, req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteMe deletes the current user's account and everything it owns
// @Summary     Delete current user
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Deletion confirmation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/me [delete]
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
