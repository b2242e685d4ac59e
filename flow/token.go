package flow

import (
	"encoding/json"
	"time"

	"github.com/dpup/authkit/storage"
)

// TokenState is the durable authentication state produced by a successful
// code exchange or refresh. It is replaced wholesale on each refresh and
// deleted on logout.
type TokenState struct {
	// AccessToken is presented to resource servers to authorize API calls.
	AccessToken string `json:"accessToken"`

	// RefreshToken obtains new access tokens without re-authenticating.
	// Empty when the server did not grant one.
	RefreshToken string `json:"refreshToken,omitempty"`

	// IDToken is the encoded, unverified JWT asserting the user's identity.
	IDToken string `json:"idToken,omitempty"`

	// ExpiresAt is the absolute expiry in milliseconds since epoch, or 0
	// when the server did not provide expires_in.
	ExpiresAt int64 `json:"expiresAt,omitempty"`

	// Scope is the granted scope string as reported by the server.
	Scope string `json:"scope,omitempty"`
}

// Expiry returns the expiry as a time, or the zero time when unknown.
func (t *TokenState) Expiry() time.Time {
	if t.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(t.ExpiresAt)
}

// Expired returns true if the token has a known expiry in the past.
func (t *TokenState) Expired() bool {
	return t.ExpiresWithin(0)
}

// ExpiresWithin returns true if the token has a known expiry that falls
// inside the given lookahead window. Tokens without an expiry never expire
// from the client's point of view.
func (t *TokenState) ExpiresWithin(lookahead time.Duration) bool {
	if t.ExpiresAt == 0 {
		return false
	}
	return time.Now().Add(lookahead).UnixMilli() >= t.ExpiresAt
}

// tokenResponse is the token endpoint wire format (RFC 6749 section 5.1).
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	Scope        string `json:"scope"`
}

func (r *tokenResponse) toTokenState(now time.Time) *TokenState {
	ts := &TokenState{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		IDToken:      r.IDToken,
		Scope:        r.Scope,
	}
	if r.ExpiresIn > 0 {
		ts.ExpiresAt = now.Add(time.Duration(r.ExpiresIn) * time.Second).UnixMilli()
	}
	return ts
}

// LoadTokens reads the stored token state, returning nil when none exists
// or the stored value cannot be decoded.
func LoadTokens(tokens storage.Store) *TokenState {
	raw := tokens.Get(keyTokens)
	if raw == "" {
		return nil
	}
	var ts TokenState
	if err := json.Unmarshal([]byte(raw), &ts); err != nil {
		return nil
	}
	return &ts
}

// SaveTokens persists the token state, replacing any previous value.
func SaveTokens(tokens storage.Store, ts *TokenState) {
	b, err := json.Marshal(ts)
	if err != nil {
		return
	}
	tokens.Set(keyTokens, string(b))
}

// ClearTokens deletes the stored token state.
func ClearTokens(tokens storage.Store) {
	tokens.Remove(keyTokens)
}
