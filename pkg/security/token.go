// Package security provides validation and masking of bearer credentials.
package security

import (
	"crypto/subtle"
	"regexp"
	"strings"
)

// Characters found in TMDB v4 read access tokens (JWT) and GitHub tokens.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]+$`)

// TokenValidator checks the shape of static API credentials.
type TokenValidator struct {
	minLength int
	maxLength int
}

// NewTokenValidator creates a validator with reasonable defaults.
func NewTokenValidator() *TokenValidator {
	return &TokenValidator{
		minLength: 8,
		maxLength: 1024,
	}
}

// ValidateToken reports whether token has an acceptable length and only
// contains characters safe to put into an Authorization header.
func (v *TokenValidator) ValidateToken(token string) bool {
	if token == "" {
		return false
	}
	if len(token) < v.minLength || len(token) > v.maxLength {
		return false
	}
	return tokenPattern.MatchString(token)
}

// SanitizeToken trims surrounding whitespace, which is the usual damage
// done by copying a token into an env file.
func (v *TokenValidator) SanitizeToken(token string) string {
	return strings.TrimSpace(token)
}

// SecureCompare performs constant-time comparison of two tokens.
func (v *TokenValidator) SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// MaskToken creates a masked version for logging (shows only first/last few chars)
func MaskToken(token string) string {
	if len(token) == 0 {
		return "[empty]"
	}

	if len(token) <= 8 {
		return "[***]"
	}

	return token[:3] + "..." + token[len(token)-3:]
}
