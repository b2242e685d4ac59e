package authkit

import (
	"context"

	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/httpclient"
)

// AuthState is the externally observable authentication state. Subscribers
// receive a snapshot on every transition; the zero value plus Loading=true
// is the state of a freshly constructed client.
type AuthState struct {
	// Authenticated is true once valid tokens are held.
	Authenticated bool

	// Loading is true while an initialization or callback exchange is in
	// progress. It starts true so consumers can distinguish "not yet
	// settled" from "settled unauthenticated".
	Loading bool

	// JWT holds the decoded (not verified) ID token claims, or nil when no
	// ID token is present.
	JWT map[string]any

	// User holds the result of the configured user fetch, or nil.
	User any

	// Err is the most recent flow failure, cleared on the next successful
	// authentication or logout.
	Err *errors.Error
}

// UserFetchRequest carries what a user fetch needs to call the provider's
// userinfo endpoint or an application backend.
type UserFetchRequest struct {
	AccessToken string
	JWT         map[string]any
	HTTPClient  httpclient.Client
}

// UserFetchFunc loads an application-level user object after
// authentication. An error is logged but does not fail the flow.
type UserFetchFunc func(ctx context.Context, req UserFetchRequest) (any, error)
