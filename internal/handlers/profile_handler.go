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

// ProfileHandler handles anonymous guest profiles. These routes are
// unauthenticated on purpose: the guest feature is username-only.
type ProfileHandler struct {
	profileService services.ProfileServicer
	userService    services.UserServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer, userService services.UserServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, userService: userService}
}

// CreateProfileRequest represents the request payload for guest creation.
type CreateProfileRequest struct {
	Username string `json:"username" binding:"required,min=2"`
}

// CreateProfile creates or returns an anonymous guest profile
// @Summary     Create or fetch a guest profile
// @Description Returns the existing profile for the username, or creates one
// @Tags        profile
// @Accept      json
// @Produce     json
// @Param       request body CreateProfileRequest true "Chosen username"
// @Success     200 {object} map[string]interface{} "Existing profile and token"
// @Success     201 {object} map[string]interface{} "Created profile and token"
// @Failure     400 {object} ErrorResponse "Missing username"
// @Router      /profile [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Username is required"))
		return
	}

	user, created, err := h.profileService.CreateOrGetGuest(req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	expiresAt := time.Now().Add(config.Get().JWTExpirationDur)
	if err := h.userService.RecordSession(user.ID, middleware.HashToken(token), expiresAt); err != nil {
		logger.Get().Warnw("failed to record guest session", "error", err, "user_id", user.ID)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"user": user, "token": token, "id": user.ID})
}

// GetProfile looks up a guest profile by username
// @Summary     Fetch a guest profile
// @Tags        profile
// @Produce     json
// @Param       username path string true "Guest username"
// @Success     200 {object} map[string]interface{} "Profile"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /profile/{username} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.profileService.GetGuestByUsername(c.Param("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
