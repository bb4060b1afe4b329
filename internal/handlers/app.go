package handlers

import (
	"net/http"

	"github.com/aubry-tp/aubry-tp/internal/config"
	"github.com/aubry-tp/aubry-tp/internal/types"
	"github.com/gin-gonic/gin"
)

var cfg config.Config

// Configure hands the loaded config to the handlers package. Must be
// called once before the router starts serving.
func Configure(c config.Config) {
	cfg = c
}

func secureCookies() bool {
	return cfg.IsProduction()
}

// invalidData responds with the structured field-level detail used by all
// validation failures.
func invalidData(ctx *gin.Context, details []types.FieldError) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid data",
		"details": details,
	})
}
