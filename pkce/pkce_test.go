package pkce

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestGenerateCodeVerifier(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		v := GenerateCodeVerifier()
		assert.Len(t, v, VerifierLength)
		assert.Regexp(t, urlSafe, v)
		assert.False(t, seen[v], "verifier repeated: %s", v)
		seen[v] = true
	}
}

func TestGenerateCodeChallenge(t *testing.T) {
	v := GenerateCodeVerifier()

	c1 := GenerateCodeChallenge(v)
	c2 := GenerateCodeChallenge(v)

	assert.Equal(t, c1, c2, "challenge must be deterministic")
	assert.NotEqual(t, v, c1, "challenge must differ from verifier")
	assert.Len(t, c1, 43)
	assert.Regexp(t, urlSafe, c1)
}

func TestGenerateCodeChallenge_KnownVector(t *testing.T) {
	// RFC 7636 appendix B.
	challenge := GenerateCodeChallenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", challenge)
}

func TestGeneratePair(t *testing.T) {
	pair := GeneratePair()
	require.NotEmpty(t, pair.Verifier)
	assert.Equal(t, GenerateCodeChallenge(pair.Verifier), pair.Challenge)
}

func TestGenerateState(t *testing.T) {
	s := GenerateState(0)
	assert.Len(t, s, 43)
	assert.Regexp(t, urlSafe, s)

	short := GenerateState(16)
	assert.Len(t, short, 22)

	assert.NotEqual(t, GenerateState(0), GenerateState(0))
}

func TestValidateState(t *testing.T) {
	s := GenerateState(0)

	tests := []struct {
		name     string
		received string
		stored   string
		expected bool
	}{
		{"matching", s, s, true},
		{"received empty", "", s, false},
		{"stored empty", s, "", false},
		{"both empty", "", "", false},
		{"length mismatch", s[:10], s, false},
		{"first char differs", "X" + s[1:], s, false},
		{"middle char differs", s[:20] + "X" + s[21:], s, false},
		{"last char differs", s[:len(s)-1] + "X", s, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateState(tt.received, tt.stored))
		})
	}
}

func TestValidateState_MismatchPositionIndependent(t *testing.T) {
	// Same branch outcome regardless of where the first differing
	// character occurs.
	s := GenerateState(0)
	for i := 0; i < len(s); i++ {
		mutated := s[:i] + "#" + s[i+1:]
		assert.False(t, ValidateState(mutated, s), "mismatch at %d", i)
	}
}
