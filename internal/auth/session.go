package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie holding the signed admin session token.
const SessionCookieName = "admin_session"

// SessionDuration is how long an admin stays logged in.
const SessionDuration = 7 * 24 * time.Hour

var sessionSecret string

func InitSessionSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("SESSION_SECRET is not set")
	}
	sessionSecret = secret
	return nil
}

// GenerateSessionToken signs the admin's user id into a session token.
// The token is signed so the cookie value cannot be forged, but the
// middleware still re-checks the user row on every request.
func GenerateSessionToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(SessionDuration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(sessionSecret))
}

// VerifySessionToken parses the session token and returns the user id it
// carries. It fails on an invalid signature, a non-HMAC method or an
// expired token.
func VerifySessionToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(sessionSecret), nil
	})

	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid session claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid user id in session claims")
	}

	return uint(userIDFloat), nil
}

// NewSessionCookie wraps a session token in the cookie the browser holds.
// Secure is only set outside local development so the cookie still works
// over plain http on a dev machine.
func NewSessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie returns a cookie that clears the session.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
