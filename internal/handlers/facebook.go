package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/models"
	"github.com/aubry-tp/aubry-tp/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

const defaultFacebookMessage = "Test post from the Aubry TP site"

type FacebookPostRequest struct {
	Message string `json:"message"`
}

// FacebookPost publishes a message on the company's Facebook page. Every
// attempt is recorded as a SocialPost row with the raw Graph response.
func FacebookPost(ctx *gin.Context) {
	if cfg.FacebookPageID == "" || cfg.FacebookAccessToken == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Missing FACEBOOK_PAGE_ID or FACEBOOK_ACCESS_TOKEN"})
		return
	}

	var body FacebookPostRequest

	// The body is optional: a bare POST publishes the default test
	// message, but a malformed body is still a hard error so nothing is
	// published on a request the client is told has failed.
	if err := ctx.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Message == "" {
		body.Message = defaultFacebookMessage
	}

	result, raw, err := services.PostToPage(ctx.Request.Context(), cfg.FacebookPageID, cfg.FacebookAccessToken, body.Message)

	record := models.SocialPost{
		PageID:    cfg.FacebookPageID,
		Message:   body.Message,
		Succeeded: err == nil,
		Response:  datatypes.JSON(raw),
	}

	if dbErr := db.DB.Create(&record).Error; dbErr != nil {
		slog.Error("failed to record social post", "error", dbErr)
	}

	if err != nil {
		var graphErr *services.GraphError

		switch {
		case errors.Is(err, services.ErrPageNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Facebook page not found for the configured token"})
		case errors.As(err, &graphErr):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": graphErr.Message})
		default:
			slog.Error("facebook post failed", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post to Facebook"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}
