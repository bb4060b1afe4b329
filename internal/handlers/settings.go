package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/models"
	"github.com/aubry-tp/aubry-tp/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type SocialLinksRequest struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Linkedin  string `json:"linkedin"`
}

var socialKeys = []string{
	models.SettingSocialFacebook,
	models.SettingSocialInstagram,
	models.SettingSocialLinkedin,
}

func GetSocialLinks(ctx *gin.Context) {
	var settings []models.Setting

	if err := db.DB.Where("key IN ?", socialKeys).Find(&settings).Error; err != nil {
		slog.Error("failed to fetch social links", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Missing keys fall back to an empty string
	values := make(map[string]string, len(settings))

	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}

	ctx.JSON(http.StatusOK, types.SocialLinksResponse{
		Facebook:  values[models.SettingSocialFacebook],
		Instagram: values[models.SettingSocialInstagram],
		Linkedin:  values[models.SettingSocialLinkedin],
	})
}

// UpdateSocialLinks upserts all three social keys every time. Partial
// updates are not supported: an empty string clears a link.
func UpdateSocialLinks(ctx *gin.Context) {
	var body SocialLinksRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	settings := []models.Setting{
		{Key: models.SettingSocialFacebook, Value: body.Facebook},
		{Key: models.SettingSocialInstagram, Value: body.Instagram},
		{Key: models.SettingSocialLinkedin, Value: body.Linkedin},
	}

	for _, setting := range settings {
		err := db.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error

		if err != nil {
			slog.Error("failed to upsert setting", "error", err, "key", setting.Key)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Social links updated",
	})
}
