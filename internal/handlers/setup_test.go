package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aubry-tp/aubry-tp/db"
	"github.com/aubry-tp/aubry-tp/internal/auth"
	"github.com/aubry-tp/aubry-tp/internal/config"
	"github.com/aubry-tp/aubry-tp/internal/handlers"
	"github.com/aubry-tp/aubry-tp/internal/models"
	"github.com/aubry-tp/aubry-tp/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "correct-horse-battery"

var testCfg config.Config

func uploadDirFromConfig() string {
	return testCfg.UploadDir
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var err error
	db.DB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Contact{},
		&models.Setting{},
		&models.SocialPost{},
	)
	require.NoError(t, err)

	cfg := config.Config{
		AppEnv:        "test",
		UploadDir:     t.TempDir(),
		SessionSecret: "test-secret-12345678901234567890123456789012",
	}

	require.NoError(t, auth.InitSessionSecret(cfg.SessionSecret))
	handlers.Configure(cfg)
	testCfg = cfg

	return router.NewRouter(cfg, nil)
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		PasswordHash: hash,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

func postJSON(r *gin.Engine, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doRequest(r *gin.Engine, method, path string, body []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, path, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginTestUser logs in through the real endpoint and returns the session
// cookie the browser would hold.
func loginTestUser(t *testing.T, r *gin.Engine, username string) *http.Cookie {
	t.Helper()

	w := postJSON(r, "/api/auth/login", map[string]string{
		"username": username,
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie
		}
	}

	t.Fatal("no session cookie in login response")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
