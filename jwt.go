package authkit

import (
	"github.com/golang-jwt/jwt/v5"
)

// DecodeJWTPayload decodes a JWT's claims without verifying its signature.
// Returns nil for an empty or malformed token. The claims are for display
// and convenience only; servers must do their own verification.
func DecodeJWTPayload(token string) map[string]any {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	return map[string]any(claims)
}
