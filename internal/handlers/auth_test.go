package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/auth"
	"github.com/aubry-tp/aubry-tp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	r := setupTestRouter(t)
	user := createTestUser(t, "admin")

	t.Run("success sets decodable session cookie", func(t *testing.T) {
		w := postJSON(r, "/api/auth/login", map[string]string{
			"username": "admin",
			"password": testPassword,
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		assert.Equal(t, "admin", body["user"].(map[string]interface{})["username"])

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)

		cookie := cookies[0]
		assert.Equal(t, auth.SessionCookieName, cookie.Name)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

		userID, err := auth.VerifySessionToken(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("wrong password returns generic 401", func(t *testing.T) {
		w := postJSON(r, "/api/auth/login", map[string]string{
			"username": "admin",
			"password": "wrong-password",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid username or password", decodeBody(t, w)["error"])
	})

	t.Run("unknown username returns the same body", func(t *testing.T) {
		w := postJSON(r, "/api/auth/login", map[string]string{
			"username": "nobody",
			"password": testPassword,
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid username or password", decodeBody(t, w)["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := postJSON(r, "/api/auth/login", map[string]string{"username": "admin"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMe(t *testing.T) {
	r := setupTestRouter(t)
	user := createTestUser(t, "admin")
	cookie := loginTestUser(t, r, "admin")

	t.Run("returns the logged in user", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/auth/me", nil, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", decodeBody(t, w)["user"].(map[string]interface{})["username"])
	})

	t.Run("no cookie", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/auth/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage cookie", func(t *testing.T) {
		w := doRequest(r, "GET", "/api/auth/me", nil, &http.Cookie{
			Name:  auth.SessionCookieName,
			Value: "not-a-token",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user is locked out despite a valid cookie", func(t *testing.T) {
		require.NoError(t, db.DB.Unscoped().Delete(&models.User{}, user.ID).Error)

		w := doRequest(r, "GET", "/api/auth/me", nil, cookie)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLogout(t *testing.T) {
	r := setupTestRouter(t)
	createTestUser(t, "admin")

	w := postJSON(r, "/api/auth/logout", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestChangePassword(t *testing.T) {
	r := setupTestRouter(t)
	createTestUser(t, "admin")
	cookie := loginTestUser(t, r, "admin")

	t.Run("unauthenticated", func(t *testing.T) {
		w := postJSON(r, "/api/auth/change-password", map[string]string{
			"currentPassword": testPassword,
			"newPassword":     "brand-new-password",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		w := postJSON(r, "/api/auth/change-password", map[string]string{
			"currentPassword": "not-the-password",
			"newPassword":     "brand-new-password",
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Current password is incorrect", decodeBody(t, w)["error"])
	})

	t.Run("too short new password", func(t *testing.T) {
		w := postJSON(r, "/api/auth/change-password", map[string]string{
			"currentPassword": testPassword,
			"newPassword":     "abc",
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		w := postJSON(r, "/api/auth/change-password", map[string]string{
			"currentPassword": testPassword,
			"newPassword":     "brand-new-password",
		}, cookie)
		assert.Equal(t, http.StatusOK, w.Code)

		w = postJSON(r, "/api/auth/login", map[string]string{
			"username": "admin",
			"password": "brand-new-password",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestResetPassword(t *testing.T) {
	r := setupTestRouter(t)
	user := createTestUser(t, "admin")

	t.Run("unknown username still looks like success", func(t *testing.T) {
		w := postJSON(r, "/api/auth/reset-password", map[string]string{"username": "nobody"}, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.NotContains(t, body, "token")
	})

	t.Run("request and complete", func(t *testing.T) {
		w := postJSON(r, "/api/auth/reset-password", map[string]string{"username": "admin"}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		// Outside production the token comes back in the response
		token, ok := decodeBody(t, w)["token"].(string)
		require.True(t, ok)
		require.Len(t, token, 64)

		w = postJSON(r, "/api/auth/reset-password", map[string]string{
			"token":       token,
			"newPassword": "after-reset-password",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = postJSON(r, "/api/auth/login", map[string]string{
			"username": "admin",
			"password": "after-reset-password",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		// Token fields are cleared, so the token is single use
		w = postJSON(r, "/api/auth/reset-password", map[string]string{
			"token":       token,
			"newPassword": "yet-another-password",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.GenerateResetToken()
		require.NoError(t, err)

		expired := time.Now().Add(-time.Minute)
		require.NoError(t, db.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"reset_token":        token,
			"reset_token_expiry": expired,
		}).Error)

		w := postJSON(r, "/api/auth/reset-password", map[string]string{
			"token":       token,
			"newPassword": "after-reset-password",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid or expired token", decodeBody(t, w)["error"])
	})

	t.Run("short new password", func(t *testing.T) {
		w := postJSON(r, "/api/auth/reset-password", map[string]string{
			"token":       "whatever",
			"newPassword": "abc",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("neither username nor token", func(t *testing.T) {
		w := postJSON(r, "/api/auth/reset-password", map[string]string{}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
