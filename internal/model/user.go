package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Verified     bool   `gorm:"default:false"`
	CreatedAt    time.Time
	ExpiresAt    *time.Time

	OTPRecords    []OTPRecord   `gorm:"foreignKey:UserID"`
	ResendRequest ResendRequest `gorm:"foreignKey:UserID"`
}
