// Package share provides opaque share tokens granting read-only access to
// public resumes.
package share

import (
	"crypto/rand"
	"fmt"
)

const (
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// TokenLength is the fixed length of minted tokens. 62^12 possible
	// values make collisions negligible; the store still retries on a
	// uniqueness violation.
	TokenLength = 12
)

// NewToken mints a fixed-length random alphanumeric share token.
func NewToken() (string, error) {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}

// ValidToken reports whether s has the shape of a minted token. Used on the
// public resolve path to reject junk before touching the store.
func ValidToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
