package sessions

import (
	"crypto/rand"
	"encoding/hex"
)

const idBytes = 32

// GenerateID returns a new session identifier: 32 random bytes, hex encoded.
func GenerateID() (string, error) {
	return randomHex(idBytes)
}

// GenerateState returns a new single-use CSRF state value.
func GenerateState() (string, error) {
	return randomHex(idBytes)
}

// IsValidID reports whether id has the shape GenerateID produces.
func IsValidID(id string) bool {
	if len(id) != idBytes*2 {
		return false
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
