package models

// NotificationKind tags the severity of a notification.
type NotificationKind string

const (
	NotificationKindInfo    NotificationKind = "info"
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindWarning NotificationKind = "warning"
	NotificationKindError   NotificationKind = "error"
)

// Notification is an append-only activity record created by internal actions
// (transaction added, payment completed). Clients can only mark them read.
type Notification struct {
	Base
	UserID  uint             `gorm:"not null;index" json:"user_id"`
	Message string           `gorm:"not null" json:"message"`
	Kind    NotificationKind `gorm:"column:type;not null;default:'info'" json:"type"`
	IsRead  bool             `gorm:"not null;default:false" json:"is_read"`
}
