package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"santimsentry/internal/services"
)

// NotificationHandler handles the per-user activity log.
type NotificationHandler struct {
	notificationService services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications lists the user's notifications
// @Summary     List notifications
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Notification "Notifications, newest first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notifications, err := h.notificationService.List(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead marks one notification as read
// @Summary     Mark a notification read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Notification ID"
// @Success     200 {object} models.Notification "Updated notification"
// @Failure     404 {object} ErrorResponse "Notification not found or not owned by caller"
// @Router      /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	notification, err := h.notificationService.MarkRead(userID, notificationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// MarkAllRead marks every notification for the user read
// @Summary     Mark all notifications read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Confirmation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
