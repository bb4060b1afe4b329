package models

import "gorm.io/gorm"

// Categories a project can belong to. The public site groups the
// portfolio by these three trades.
var ProjectCategories = []string{
	"Terrassement",
	"VRD",
	"Entretien paysager",
}

func IsValidCategory(category string) bool {
	for _, c := range ProjectCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Category    string `gorm:"not null;index"`
	Description string `gorm:"not null"`
	ImageURL    *string
}
