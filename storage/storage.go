// Package storage defines the key/value contract that separates durable
// token storage from transient flow storage, along with in-memory and
// file-backed implementations.
//
// Every operation degrades rather than fails: a backend that cannot read or
// write (bad permissions, full disk) behaves as an empty store and a no-op
// writer. Authentication should never crash the host because a cache
// directory is missing; the worst case is that the user logs in again.
//
// The two storage roles have different durability needs. Token storage only
// needs to outlive individual requests, so it defaults to memory. Flow
// storage must survive the full-page round trip through the identity
// provider, so it defaults to a file.
package storage

// Store is a minimal namespaced key/value adapter. Implementations must be
// safe for concurrent use. A missing key reads as the empty string; values
// written by authkit are never empty.
type Store interface {
	// Get returns the value for key, or "" if it is not present.
	Get(key string) string

	// Set stores the value under key, replacing any previous value.
	Set(key, value string)

	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(key string)

	// Clear removes every key in this store's namespace. It must never
	// touch keys outside the namespace when the backend is shared.
	Clear()
}

// Stores pairs the two storage roles used by a client. Either role may be
// substituted independently, e.g. both in-memory for tests, or a custom
// encrypting adapter for tokens.
type Stores struct {
	// Tokens holds durable authentication state: the serialized token set.
	Tokens Store

	// Flow holds transient per-attempt state: PKCE verifier, CSRF state,
	// redirect URI, pre-auth path and the replay guard.
	Flow Store
}

// Defaults returns the standard pairing: in-memory token storage scoped to
// the process, and file-backed flow storage that survives the authorization
// redirect. The flow file lives under the user cache directory; if that is
// unavailable flow storage falls back to memory, which still works for hosts
// that stay resident across the redirect.
func Defaults(appName string) Stores {
	return Stores{
		Tokens: NewMemory(),
		Flow:   defaultFlowStore(appName),
	}
}
