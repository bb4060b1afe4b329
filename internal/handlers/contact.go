package handlers

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/models"
	"github.com/aubry-tp/aubry-tp/internal/types"
	"github.com/gin-gonic/gin"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r *ContactRequest) validate() []types.FieldError {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)

	var details []types.FieldError

	if len(r.Name) < 2 {
		details = append(details, types.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}

	if _, err := mail.ParseAddress(r.Email); err != nil {
		details = append(details, types.FieldError{Field: "email", Message: "A valid email address is required"})
	}

	if len(r.Message) < 5 {
		details = append(details, types.FieldError{Field: "message", Message: "Message must be at least 5 characters"})
	}

	return details
}

// CreateContact stores a contact form submission. Write-only: there is no
// public endpoint to read messages back.
func CreateContact(ctx *gin.Context) {
	var body ContactRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if details := body.validate(); details != nil {
		invalidData(ctx, details)
		return
	}

	contact := models.Contact{
		Name:    body.Name,
		Email:   body.Email,
		Message: body.Message,
	}

	if err := db.DB.Create(&contact).Error; err != nil {
		slog.Error("failed to store contact message", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true})
}
