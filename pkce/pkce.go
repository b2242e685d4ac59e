// Package pkce implements Proof Key for Code Exchange (RFC 7636) verifier
// and challenge generation, plus the CSRF state parameter used to protect
// the authorization callback.
//
// Only the S256 challenge method is implemented. The "plain" method is a
// known downgrade risk and every provider supported by this library accepts
// S256.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/dpup/authkit/internal/codec"
)

// VerifierLength is the length in characters of a generated code verifier:
// 32 bytes of entropy, base64url encoded without padding.
const VerifierLength = 43

// Method is the only code challenge method offered, per RFC 7636 section 4.2.
const Method = "S256"

// Pair holds a matched code verifier and its derived challenge. The verifier
// stays on the client; the challenge is sent with the authorization request.
type Pair struct {
	Verifier  string
	Challenge string
}

// GenerateCodeVerifier returns a fresh code verifier: 32 bytes from the
// system CSPRNG, base64url encoded. Collisions across calls are ruled out by
// the birthday bound on 256 bits of entropy.
func GenerateCodeVerifier() string {
	return randomURLSafe(32)
}

// GenerateCodeChallenge derives the S256 challenge for a verifier. The
// result is deterministic for a given input and is never equal to the input.
func GenerateCodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return codec.EncodeBase64URL(sum[:])
}

// GeneratePair returns a fresh verifier with its matching challenge. A new
// pair must be generated for every authorization attempt and never reused.
func GeneratePair() Pair {
	v := GenerateCodeVerifier()
	return Pair{
		Verifier:  v,
		Challenge: GenerateCodeChallenge(v),
	}
}

func randomURLSafe(numBytes int) string {
	b := make([]byte, numBytes)
	// crypto/rand.Read is documented to never fail on supported platforms.
	rand.Read(b)
	return codec.EncodeBase64URL(b)
}
