package models

import "santimsentry/internal/money"

// User represents an account holder. PasswordHash is null for guest profiles
// and Fayda-verified users, who never set a local password.
type User struct {
	Base
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  *string        `json:"-"`
	FaydaID       *string        `gorm:"uniqueIndex" json:"fayda_id,omitempty"`
	WalletBalance money.Amount   `gorm:"type:bigint;not null;default:0" json:"wallet_balance"`
	Transactions  []Transaction  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"notifications,omitempty"`
	Sessions      []Session      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
