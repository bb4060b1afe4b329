package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/models"
	"github.com/aubry-tp/aubry-tp/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UploadURLPrefix is the only namespace a project image may reference.
const UploadURLPrefix = "/images/"

type ProjectRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// validate trims the string fields and returns the field-level errors.
// The image URL is optional but, when present, must point into the
// managed upload directory so the gallery can never embed a foreign URL.
func (r *ProjectRequest) validate() []types.FieldError {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Description = strings.TrimSpace(r.Description)
	r.ImageURL = strings.TrimSpace(r.ImageURL)

	var details []types.FieldError

	if r.Title == "" {
		details = append(details, types.FieldError{Field: "title", Message: "Title is required"})
	}

	if r.Category == "" {
		details = append(details, types.FieldError{Field: "category", Message: "Category is required"})
	} else if !models.IsValidCategory(r.Category) {
		details = append(details, types.FieldError{Field: "category", Message: "Unknown category"})
	}

	if r.Description == "" {
		details = append(details, types.FieldError{Field: "description", Message: "Description is required"})
	}

	if r.ImageURL != "" && !strings.HasPrefix(r.ImageURL, UploadURLPrefix) {
		details = append(details, types.FieldError{Field: "imageUrl", Message: "Only uploaded images are allowed"})
	}

	return details
}

// imageURL normalizes the optional image field: an empty string is stored
// as NULL.
func (r *ProjectRequest) imageURL() *string {
	if r.ImageURL == "" {
		return nil
	}
	return &r.ImageURL
}

func projectResponse(project models.Project) types.ProjectResponse {
	return types.ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Category:    project.Category,
		Description: project.Description,
		ImageURL:    project.ImageURL,
		CreatedAt:   project.CreatedAt,
	}
}

func ListProjects(ctx *gin.Context) {
	var projects []models.Project

	if err := db.DB.Order("created_at DESC").Find(&projects).Error; err != nil {
		slog.Error("failed to list projects", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			slog.Error("failed to fetch project", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func CreateProject(ctx *gin.Context) {
	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if details := body.validate(); details != nil {
		invalidData(ctx, details)
		return
	}

	project := models.Project{
		Title:       body.Title,
		Category:    body.Category,
		Description: body.Description,
		ImageURL:    body.imageURL(),
	}

	if err := db.DB.Create(&project).Error; err != nil {
		slog.Error("failed to create project", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "project": projectResponse(project)})
}

func UpdateProject(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if details := body.validate(); details != nil {
		invalidData(ctx, details)
		return
	}

	var project models.Project

	if err := db.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			slog.Error("failed to fetch project", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	project.Title = body.Title
	project.Category = body.Category
	project.Description = body.Description
	project.ImageURL = body.imageURL()

	if err := db.DB.Save(&project).Error; err != nil {
		slog.Error("failed to update project", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "project": projectResponse(project)})
}

func DeleteProject(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			slog.Error("failed to fetch project", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	if err := db.DB.Delete(&project).Error; err != nil {
		slog.Error("failed to delete project", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted"})
}
