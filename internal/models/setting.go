package models

import "gorm.io/gorm"

// Setting keys for the social links shown in the site footer.
const (
	SettingSocialFacebook  = "social_facebook"
	SettingSocialInstagram = "social_instagram"
	SettingSocialLinkedin  = "social_linkedin"
)

type Setting struct {
	gorm.Model

	Key   string `gorm:"uniqueIndex;not null"`
	Value string
}
