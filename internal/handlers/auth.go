package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/auth"
	"github.com/aubry-tp/aubry-tp/internal/models"
	"github.com/aubry-tp/aubry-tp/internal/types"
	"github.com/aubry-tp/aubry-tp/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ResetPasswordRequest covers both steps of the reset flow: a request
// carries a username, a completion carries a token plus new password.
type ResetPasswordRequest struct {
	Username    string `json:"username"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User

	err := db.DB.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same body as a wrong password so the response does not
			// reveal which field was wrong.
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		slog.Error("database error when fetching user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateSessionToken(user.ID)

	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	http.SetCookie(ctx.Writer, auth.NewSessionCookie(token, secureCookies()))

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:       user.ID,
			Username: user.Username,
		},
	})
}

func Logout(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, auth.ExpiredSessionCookie(secureCookies()))

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:       currentUser.ID,
			Username: currentUser.Username,
		},
	})
}

func ChangePassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ChangePasswordRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		slog.Error("failed to fetch user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)

	if err != nil {
		slog.Error("failed to hash new password", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Model(&user).Update("password_hash", passwordHash).Error; err != nil {
		slog.Error("failed to update password", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

func ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	switch {
	case req.Username != "":
		requestPasswordReset(ctx, req.Username)
	case req.Token != "":
		completePasswordReset(ctx, req.Token, req.NewPassword)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	}
}

func requestPasswordReset(ctx *gin.Context, username string) {
	var user models.User

	err := db.DB.Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Success-shaped response so the endpoint cannot be used to
			// probe for valid usernames.
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "If this user exists, a reset email will be sent.",
			})
			return
		}
		slog.Error("database error when fetching user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.GenerateResetToken()

	if err != nil {
		slog.Error("failed to generate reset token", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	expiry := time.Now().Add(auth.ResetTokenDuration)

	updates := map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		slog.Error("failed to store reset token", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := gin.H{
		"success": true,
		"message": "Reset token generated",
	}

	// TODO: send the token by email once SMTP credentials are available.
	// Until then the token is only exposed in non-production responses.
	if !cfg.IsProduction() {
		response["token"] = token
	}

	ctx.JSON(http.StatusOK, response)
}

func completePasswordReset(ctx *gin.Context, token, newPassword string) {
	if len(newPassword) < 6 {
		invalidData(ctx, []types.FieldError{
			{Field: "newPassword", Message: "New password must be at least 6 characters"},
		})
		return
	}

	var user models.User

	err := db.DB.Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		slog.Error("database error when fetching user by reset token", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := auth.HashPassword(newPassword)

	if err != nil {
		slog.Error("failed to hash new password", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"password_hash":      passwordHash,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		slog.Error("failed to reset password", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

// InitAdmin triggers the admin bootstrap over HTTP. The route is only
// registered outside production.
func InitAdmin(ctx *gin.Context) {
	if err := auth.EnsureAdminUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("failed to initialize admin user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize admin user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin user initialized (or already exists)",
	})
}
