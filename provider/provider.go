// Package provider describes the identity provider a client talks to. A
// Config can be constructed directly, through one of the preset constructors
// (Keycloak, Authentik, Okta, Auth0), or loaded from configuration files and
// environment variables via Load.
package provider

import (
	"net/url"

	"github.com/dpup/authkit/errors"
)

// Config identifies an OAuth 2.0 / OIDC provider and how this application
// is registered with it. It is read-only for the lifetime of a client.
type Config struct {
	// Issuer is the provider's base URL, used for logging and presets.
	Issuer string

	// ClientID is the public client identifier.
	ClientID string

	// RedirectURI is the registered callback URL for this application.
	RedirectURI string

	// Scopes are the requested scopes, space-joined on the wire in order.
	Scopes []string

	// AuthorizationEndpoint receives the user for login and consent.
	AuthorizationEndpoint string

	// TokenEndpoint exchanges codes and refresh tokens for tokens.
	TokenEndpoint string

	// LogoutEndpoint, when set, ends the provider session on logout.
	LogoutEndpoint string

	// UserInfoEndpoint, when set, can be used by a user-fetch callback.
	UserInfoEndpoint string

	// RevocationEndpoint, when set, can be used to revoke tokens.
	RevocationEndpoint string

	// PostLogoutRedirectURI overrides where the provider sends the user
	// after logout. Defaults to the application origin.
	PostLogoutRedirectURI string

	// ExtraAuthParams are appended to every authorization request. Values
	// provided per-call take precedence on key collision.
	ExtraAuthParams map[string]string
}

// Validate checks that the fields needed to run an authorization code flow
// are present and well formed.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewK(errors.KindConfigurationError, "provider config is required")
	}
	if c.ClientID == "" {
		return errors.NewK(errors.KindConfigurationError, "provider config missing client id")
	}
	if c.RedirectURI == "" {
		return errors.NewK(errors.KindConfigurationError, "provider config missing redirect uri")
	}
	if c.AuthorizationEndpoint == "" {
		return errors.NewK(errors.KindConfigurationError, "provider config missing authorization endpoint")
	}
	if c.TokenEndpoint == "" {
		return errors.NewK(errors.KindConfigurationError, "provider config missing token endpoint")
	}
	for _, u := range []string{c.RedirectURI, c.AuthorizationEndpoint, c.TokenEndpoint} {
		if _, err := url.Parse(u); err != nil {
			return errors.WrapK(errors.KindConfigurationError, err)
		}
	}
	return nil
}
