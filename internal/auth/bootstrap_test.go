package auth

import (
	"testing"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const strongPassword = "Chantier2024!secure"

func setupBootstrapDB(t *testing.T) {
	t.Helper()

	var err error
	db.DB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.DB.AutoMigrate(&models.User{}))
}

func countUsers(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.User{}).Count(&count).Error)
	return count
}

func TestEnsureAdminUserIdempotent(t *testing.T) {
	setupBootstrapDB(t)

	require.NoError(t, EnsureAdminUser("admin", strongPassword))
	require.NoError(t, EnsureAdminUser("admin", strongPassword))

	assert.Equal(t, int64(1), countUsers(t))

	var user models.User
	require.NoError(t, db.DB.First(&user).Error)
	assert.Equal(t, "admin", user.Username)
	assert.True(t, CheckPassword(strongPassword, user.PasswordHash))
}

func TestEnsureAdminUserSkipsWhenUsersExist(t *testing.T) {
	setupBootstrapDB(t)

	require.NoError(t, db.DB.Create(&models.User{Username: "existing", PasswordHash: "x"}).Error)

	require.NoError(t, EnsureAdminUser("admin", strongPassword))
	assert.Equal(t, int64(1), countUsers(t))
}

func TestEnsureAdminUserWithoutCredentials(t *testing.T) {
	setupBootstrapDB(t)

	// No credentials configured: skip with a warning, never invent a default
	require.NoError(t, EnsureAdminUser("", ""))
	assert.Equal(t, int64(0), countUsers(t))
}

func TestEnsureAdminUserRejectsWeakPassword(t *testing.T) {
	setupBootstrapDB(t)

	assert.Error(t, EnsureAdminUser("admin", "admin"))
	assert.Equal(t, int64(0), countUsers(t))
}

func TestValidateAdminPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"strong", "Chantier2024!secure", true},
		{"too short", "Ab1!", false},
		{"no uppercase", "chantier2024!secure", false},
		{"no lowercase", "CHANTIER2024!SECURE", false},
		{"no digit", "Chantier!secure!!", false},
		{"no symbol", "Chantier2024secure", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAdminPassword(tc.password)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
