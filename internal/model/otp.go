package model

import "time"

// OTPRecord holds a single pending email verification code. Only the
// hash of the code is stored. Records are never updated, a newer code
// replaces them and a successful verification deletes them.
type OTPRecord struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"index"`
	OTPHash   string `gorm:"not null"`
	CreatedAt time.Time
	ExpiresAt time.Time
}
