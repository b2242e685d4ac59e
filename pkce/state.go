package pkce

import "crypto/subtle"

// DefaultStateBytes is the entropy used for generated state parameters.
const DefaultStateBytes = 32

// GenerateState returns a random state parameter for CSRF protection. If
// numBytes is zero or negative the default of 32 bytes is used.
func GenerateState(numBytes int) string {
	if numBytes <= 0 {
		numBytes = DefaultStateBytes
	}
	return randomURLSafe(numBytes)
}

// ValidateState compares the state echoed back by the provider against the
// stored value. It returns false if either value is empty or the lengths
// differ, and otherwise compares in constant time so that the comparison
// cost does not leak the position of the first mismatch. This check is the
// sole CSRF defense on the callback.
func ValidateState(received, stored string) bool {
	if received == "" || stored == "" {
		return false
	}
	if len(received) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(received), []byte(stored)) == 1
}
