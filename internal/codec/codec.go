// Package codec provides strict base64 and base64url helpers used by the
// PKCE and state generators. Decoding rejects malformed input rather than
// silently truncating.
package codec

import "encoding/base64"

// EncodeBase64 encodes bytes using standard base64 with padding.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes standard base64, rejecting invalid characters and
// incorrect padding.
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.Strict().DecodeString(s)
}

// EncodeBase64URL encodes bytes using the URL-safe alphabet without padding,
// as required for PKCE verifiers and challenges (RFC 7636 appendix A).
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL decodes unpadded URL-safe base64.
func DecodeBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(s)
}
