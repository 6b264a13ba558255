package services

import (
	"gorm.io/gorm"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/logger"
	"santimsentry/internal/models"
)

// notificationService is the append-only, per-user activity log.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Notify records a notification. Errors are logged but never propagate, so a
// failed insert cannot fail the business operation that triggered it.
func (s *notificationService) Notify(userID uint, message string, kind models.NotificationKind) {
	notification := &models.Notification{
		UserID:  userID,
		Message: message,
		Kind:    kind,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logger.Get().Errorw("failed to create notification",
			"error", err,
			"user_id", userID,
			"kind", kind,
		)
	}
}

// List returns the user's notifications, newest first.
func (s *notificationService) List(userID uint) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return notifications, nil
}

// MarkRead marks one notification read. The predicate includes the owning
// user, so an id belonging to someone else reads as not-found.
func (s *notificationService) MarkRead(userID, notificationID uint) (*models.Notification, error) {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrNotificationNotFound
	}

	var notification models.Notification
	if err := s.db.First(&notification, notificationID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &notification, nil
}

// MarkAllRead marks every notification for the user read. It succeeds even
// when there is nothing to update, and is idempotent.
func (s *notificationService) MarkAllRead(userID uint) error {
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Update("is_read", true).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
