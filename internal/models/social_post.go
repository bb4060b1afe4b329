package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SocialPost records every attempt to publish on the Facebook page,
// including the raw Graph API response for troubleshooting.
type SocialPost struct {
	gorm.Model

	PageID    string `gorm:"not null;index"`
	Message   string `gorm:"not null"`
	Succeeded bool   `gorm:"not null"`
	Response  datatypes.JSON
}
