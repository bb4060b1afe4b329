package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Password reset fields, set only while a reset is pending
	ResetToken       *string `gorm:"index"`
	ResetTokenExpiry *time.Time
}
