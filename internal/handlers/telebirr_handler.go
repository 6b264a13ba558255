package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/money"
	"santimsentry/internal/services"
)

// TelebirrHandler exposes the simulated Telebirr payment endpoints.
type TelebirrHandler struct {
	walletService services.WalletServicer
}

// NewTelebirrHandler creates a new TelebirrHandler.
func NewTelebirrHandler(walletService services.WalletServicer) *TelebirrHandler {
	return &TelebirrHandler{walletService: walletService}
}

// PayRequest represents a wallet top-up request.
type PayRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"150.50"`
	PhoneNumber string  `json:"phoneNumber" binding:"required,et_phone" example:"0912345678"`
}

// Pay tops up the wallet through the simulated Telebirr gateway
// @Summary     Top up wallet via Telebirr
// @Tags        telebirr
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       payment body PayRequest true "Top-up details"
// @Success     200 {object} services.TopUpReceipt "Payment receipt"
// @Failure     400 {object} ErrorResponse "Invalid amount or phone number"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /telebirr/pay [post]
func (h *TelebirrHandler) Pay(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	receipt, err := h.walletService.TopUp(userID, money.FromFloat(req.Amount), req.PhoneNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// PayForInsights charges the wallet for an AI advisory session
// @Summary     Pay for AI insights
// @Tags        telebirr
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "New wallet balance"
// @Failure     400 {object} ErrorResponse "Insufficient wallet balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /telebirr/ai/pay [post]
func (h *TelebirrHandler) PayForInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.walletService.ChargeAIInsights(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Payment successful",
		"wallet_balance": balance,
	})
}
