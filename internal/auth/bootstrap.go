package auth

import (
	"fmt"
	"log/slog"
	"unicode"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/models"
)

// MinAdminPasswordLength is the minimum length for the bootstrap admin
// password.
const MinAdminPasswordLength = 12

// ValidateAdminPassword enforces the complexity rules for the bootstrap
// credentials: at least 12 characters with upper, lower, digit and symbol.
func ValidateAdminPassword(password string) error {
	if len(password) < MinAdminPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters long", MinAdminPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return fmt.Errorf("admin password must contain uppercase, lowercase, digit and symbol characters")
	}

	return nil
}

// EnsureAdminUser creates the bootstrap admin account when the user table
// is empty. Credentials must come from the environment and pass the
// complexity check; without them the bootstrap is skipped with a warning
// so the server still starts. Running it again is a no-op.
func EnsureAdminUser(username, password string) error {
	var count int64
	if err := db.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if count > 0 {
		return nil
	}

	if username == "" || password == "" {
		slog.Warn("no users exist and ADMIN_USERNAME/ADMIN_PASSWORD are not set, skipping admin bootstrap")
		return nil
	}

	if err := ValidateAdminPassword(password); err != nil {
		return err
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := db.DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("bootstrap admin user created", "username", username)
	return nil
}
