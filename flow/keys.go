// Package flow implements the OAuth 2.0 authorization code flow with PKCE:
// building authorization requests, validating callbacks, exchanging codes
// for tokens, refreshing access tokens with single-flight coordination, and
// logging out.
//
// The functions in this package are stateless; all per-attempt and durable
// state lives in the storage.Store instances passed in. The authkit.Client
// orchestrator composes them into a state machine, but they are usable
// directly by hosts that want finer control.
package flow

// Flow storage keys. Exactly one flow may be in flight per flow store; a
// second authorization attempt overwrites these keys.
const (
	keyCodeVerifier = "codeVerifier"
	keyAuthState    = "authState"
	keyRedirectURI  = "redirectUri"
	keyPreAuthPath  = "preAuthPath"

	// keyExchangedCode survives the exchange that consumes a code so that a
	// duplicate callback with the same code is rejected instead of being
	// sent to the token endpoint twice.
	keyExchangedCode = "exchangedCode"
)

// Token storage key. The whole token set is overwritten wholesale on each
// exchange or refresh.
const keyTokens = "tokens"
