package flow

import (
	"context"
	"net/url"

	"github.com/dpup/authkit/logging"
	"github.com/dpup/authkit/navigation"
	"github.com/dpup/authkit/provider"
	"github.com/dpup/authkit/storage"
)

// LogoutOptions adjust logout behavior.
type LogoutOptions struct {
	// LocalOnly clears local state without contacting the provider, leaving
	// the provider session intact.
	LocalOnly bool

	// NoRedirect clears local state and suppresses the navigation to the
	// provider's logout endpoint.
	NoRedirect bool
}

// BuildLogoutURL builds the provider logout URL, or returns the empty
// string when the provider has no logout endpoint configured. The
// post_logout_redirect_uri is the provider-configured value, falling back
// to currentOrigin; id_token_hint is included when an ID token is
// available.
func BuildLogoutURL(cfg *provider.Config, idToken string, currentOrigin string) string {
	if cfg.LogoutEndpoint == "" {
		return ""
	}

	postLogout := cfg.PostLogoutRedirectURI
	if postLogout == "" {
		postLogout = currentOrigin
	}

	q := url.Values{}
	if postLogout != "" {
		q.Set("post_logout_redirect_uri", postLogout)
	}
	if idToken != "" {
		q.Set("id_token_hint", idToken)
	}
	if cfg.ClientID != "" {
		q.Set("client_id", cfg.ClientID)
	}

	u, err := url.Parse(cfg.LogoutEndpoint)
	if err != nil {
		return ""
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Logout always clears token and flow storage first, so local state is void
// even if the navigation never happens. Unless suppressed via options, it
// then navigates to the provider's logout URL; providers without a logout
// endpoint get a purely local logout.
func Logout(ctx context.Context, cfg *provider.Config, stores storage.Stores, nav navigation.Navigator, opts LogoutOptions) {
	idToken := ""
	if ts := LoadTokens(stores.Tokens); ts != nil {
		idToken = ts.IDToken
	}

	stores.Tokens.Clear()
	stores.Flow.Clear()
	logging.Info(ctx, "authkit: cleared local authentication state")

	if opts.LocalOnly || opts.NoRedirect {
		return
	}

	u := BuildLogoutURL(cfg, idToken, Origin(nav.CurrentURL()))
	if u == "" {
		return
	}
	logging.Infow(ctx, "authkit: redirecting to provider logout", "endpoint", cfg.LogoutEndpoint)
	nav.NavigateTo(u)
}
