package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// CSRFTokenBytes is the amount of randomness in a CSRF token
const CSRFTokenBytes = 32

// GenerateCSRFToken returns a hex-encoded random token
func GenerateCSRFToken() (string, error) {
	b := make([]byte, CSRFTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// VerifyCSRFToken compares the submitted token with the session token in constant time.
// An empty session token never matches.
func VerifyCSRFToken(sessionToken, submitted string) bool {
	if sessionToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sessionToken), []byte(submitted)) == 1
}
