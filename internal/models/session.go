package models

import "time"

// Session records an issued bearer token for auditing. Only the SHA-256 hash
// of the token is stored. Requests are authenticated against the JWT itself;
// these rows are bookkeeping and cascade away with the user.
type Session struct {
	Base
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
