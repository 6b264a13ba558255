package models

import (
	"time"

	"santimsentry/internal/money"
)

// Transaction is a single income or expense entry. It deliberately has no
// type column: income vs. expense is derived from the joined category, so
// the two can never disagree.
type Transaction struct {
	Base
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	CategoryID  uint         `gorm:"not null" json:"category_id"`
	Amount      money.Amount `gorm:"type:bigint;not null" json:"amount"`
	Description string       `json:"description"`
	IsTelebirr  bool         `gorm:"not null;default:false" json:"is_telebirr"`
	Date        time.Time    `gorm:"column:transaction_date;not null" json:"transaction_date"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}
