package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"santimsentry/internal/config"
	"santimsentry/internal/logger"
	"santimsentry/internal/services"
)

// FaydaHandler drives the national-ID OIDC login flow.
type FaydaHandler struct {
	faydaService services.FaydaServicer
	frontendURL  string
}

// NewFaydaHandler creates a new FaydaHandler.
func NewFaydaHandler(faydaService services.FaydaServicer, cfg *config.Config) *FaydaHandler {
	return &FaydaHandler{faydaService: faydaService, frontendURL: cfg.FrontendURL}
}

// Login redirects the browser to the Fayda authorization endpoint
// @Summary     Start Fayda login
// @Tags        auth
// @Success     302 "Redirect to the identity provider"
// @Failure     500 {object} ErrorResponse "Provider not configured"
// @Router      /auth/fayda/login [get]
func (h *FaydaHandler) Login(c *gin.Context) {
	authorizeURL, err := h.faydaService.AuthorizeURL()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, authorizeURL)
}

// Callback completes the Fayda login and hands the token to the frontend
// @Summary     Fayda OIDC callback
// @Tags        auth
// @Param       code query string true "Authorization code"
// @Success     302 "Redirect to the frontend dashboard"
// @Router      /callback [get]
func (h *FaydaHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.frontendURL+"/login?error=fayda_failed")
		return
	}

	token, err := h.faydaService.HandleCallback(code)
	if err != nil {
		logger.Get().Errorw("Fayda callback failed", "error", err)
		c.Redirect(http.StatusFound, h.frontendURL+"/login?error=fayda_failed")
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/dashboard?token="+token)
}
