package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"santimsentry/internal/services"
)

// AdvisorHandler serves AI-generated financial recommendations.
type AdvisorHandler struct {
	advisorService services.AdvisorServicer
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(advisorService services.AdvisorServicer) *AdvisorHandler {
	return &AdvisorHandler{advisorService: advisorService}
}

// GetInsights generates personalized financial tips from the user's summary
// @Summary     AI financial insights
// @Tags        ai
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Three recommendations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Advisory service unavailable"
// @Router      /ai/insights [get]
func (h *AdvisorHandler) GetInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.advisorService.GenerateInsights(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
