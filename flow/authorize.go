package flow

import (
	"context"
	"net/url"
	"strings"

	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/logging"
	"github.com/dpup/authkit/navigation"
	"github.com/dpup/authkit/pkce"
	"github.com/dpup/authkit/provider"
	"github.com/dpup/authkit/storage"
)

// AuthorizeOptions adjust a single authorization attempt.
type AuthorizeOptions struct {
	// Prompt is forwarded as the OIDC prompt parameter. Valid values are
	// "login", "consent" and "none".
	Prompt string

	// ExtraParams are appended to the authorization request, overriding
	// provider-level extra params on key collision.
	ExtraParams map[string]string

	// PreservePath captures the current path and query so that a successful
	// login can restore the user to where they started.
	PreservePath bool

	// RedirectURI overrides the provider's configured redirect URI for this
	// attempt.
	RedirectURI string
}

// BuildAuthorizationURL generates a fresh PKCE pair and state token, writes
// the attempt's flow state to storage, and returns the provider's
// authorization URL. Each call produces new verifier, challenge and state
// values; a previous in-flight attempt is overwritten.
func BuildAuthorizationURL(ctx context.Context, cfg *provider.Config, flow storage.Store, nav navigation.Navigator, opts AuthorizeOptions) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	pair := pkce.GeneratePair()
	state := pkce.GenerateState(0)

	redirectURI := opts.RedirectURI
	if redirectURI == "" {
		redirectURI = cfg.RedirectURI
	}

	flow.Set(keyCodeVerifier, pair.Verifier)
	flow.Set(keyAuthState, state)
	flow.Set(keyRedirectURI, redirectURI)
	if opts.PreservePath && nav != nil {
		flow.Set(keyPreAuthPath, PathWithQuery(nav.CurrentURL()))
	}

	q := url.Values{}
	q.Set("client_id", cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(cfg.Scopes, " "))
	q.Set("redirect_uri", redirectURI)
	q.Set("code_challenge", pair.Challenge)
	q.Set("code_challenge_method", pkce.Method)
	q.Set("state", state)
	if opts.Prompt != "" {
		q.Set("prompt", opts.Prompt)
	}
	for k, v := range cfg.ExtraAuthParams {
		q.Set(k, v)
	}
	// Call-level params win on collision.
	for k, v := range opts.ExtraParams {
		q.Set(k, v)
	}

	u, err := url.Parse(cfg.AuthorizationEndpoint)
	if err != nil {
		return "", errors.WrapK(errors.KindConfigurationError, err)
	}
	u.RawQuery = q.Encode()

	logging.Infow(ctx, "authkit: built authorization url", "endpoint", cfg.AuthorizationEndpoint, "client_id", cfg.ClientID)
	return u.String(), nil
}

// Authorize builds the authorization URL and navigates to it. The
// navigation is a point of no return in a browser host: nothing after this
// call should be assumed to execute in the current page lifetime.
func Authorize(ctx context.Context, cfg *provider.Config, flow storage.Store, nav navigation.Navigator, opts AuthorizeOptions) error {
	u, err := BuildAuthorizationURL(ctx, cfg, flow, nav, opts)
	if err != nil {
		return err
	}
	logging.Infof(ctx, "authkit: redirecting to authorization endpoint")
	nav.NavigateTo(u)
	return nil
}

// ConsumePreAuthPath reads and deletes the stored pre-auth path, defaulting
// to "/". Repeated calls always yield "/" once the value has been consumed.
func ConsumePreAuthPath(flow storage.Store) string {
	p := flow.Get(keyPreAuthPath)
	flow.Remove(keyPreAuthPath)
	if p == "" {
		return "/"
	}
	return p
}
