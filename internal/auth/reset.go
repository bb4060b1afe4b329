package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ResetTokenDuration is how long a password reset token stays usable.
const ResetTokenDuration = time.Hour

// GenerateResetToken returns a random 32-byte token as a hex string.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
