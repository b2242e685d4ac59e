package provider

import "strings"

// Default scopes requested by the presets. "openid" is required for an ID
// token; "profile" and "email" populate the standard identity claims.
var defaultScopes = []string{"openid", "profile", "email"}

// Preset holds the caller-supplied values shared by all presets.
type Preset struct {
	ClientID    string
	RedirectURI string

	// Scopes overrides the default openid/profile/email set when non-empty.
	Scopes []string
}

func (p Preset) scopes() []string {
	if len(p.Scopes) > 0 {
		return p.Scopes
	}
	return append([]string(nil), defaultScopes...)
}

// Keycloak returns a Config for a Keycloak realm, e.g.
// Keycloak("https://sso.example.com", "myrealm", preset).
func Keycloak(baseURL, realm string, p Preset) *Config {
	base := strings.TrimSuffix(baseURL, "/") + "/realms/" + realm + "/protocol/openid-connect"
	return &Config{
		Issuer:                strings.TrimSuffix(baseURL, "/") + "/realms/" + realm,
		ClientID:              p.ClientID,
		RedirectURI:           p.RedirectURI,
		Scopes:                p.scopes(),
		AuthorizationEndpoint: base + "/auth",
		TokenEndpoint:         base + "/token",
		LogoutEndpoint:        base + "/logout",
		UserInfoEndpoint:      base + "/userinfo",
		RevocationEndpoint:    base + "/revoke",
	}
}

// Authentik returns a Config for an Authentik instance. The application
// slug is needed because Authentik scopes its end-session endpoint per
// application.
func Authentik(baseURL, appSlug string, p Preset) *Config {
	base := strings.TrimSuffix(baseURL, "/")
	return &Config{
		Issuer:                base + "/application/o/" + appSlug + "/",
		ClientID:              p.ClientID,
		RedirectURI:           p.RedirectURI,
		Scopes:                p.scopes(),
		AuthorizationEndpoint: base + "/application/o/authorize/",
		TokenEndpoint:         base + "/application/o/token/",
		LogoutEndpoint:        base + "/application/o/" + appSlug + "/end-session/",
		UserInfoEndpoint:      base + "/application/o/userinfo/",
		RevocationEndpoint:    base + "/application/o/revoke/",
	}
}

// Okta returns a Config for an Okta org using the given authorization
// server id; pass "default" for the org's default server.
func Okta(domain, authServerID string, p Preset) *Config {
	base := strings.TrimSuffix(domain, "/")
	if !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	issuer := base + "/oauth2/" + authServerID
	return &Config{
		Issuer:                issuer,
		ClientID:              p.ClientID,
		RedirectURI:           p.RedirectURI,
		Scopes:                p.scopes(),
		AuthorizationEndpoint: issuer + "/v1/authorize",
		TokenEndpoint:         issuer + "/v1/token",
		LogoutEndpoint:        issuer + "/v1/logout",
		UserInfoEndpoint:      issuer + "/v1/userinfo",
		RevocationEndpoint:    issuer + "/v1/revoke",
	}
}

// Auth0 returns a Config for an Auth0 tenant domain, e.g.
// Auth0("myapp.us.auth0.com", preset).
func Auth0(domain string, p Preset) *Config {
	base := strings.TrimSuffix(domain, "/")
	if !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return &Config{
		Issuer:                base + "/",
		ClientID:              p.ClientID,
		RedirectURI:           p.RedirectURI,
		Scopes:                p.scopes(),
		AuthorizationEndpoint: base + "/authorize",
		TokenEndpoint:         base + "/oauth/token",
		LogoutEndpoint:        base + "/v2/logout",
		UserInfoEndpoint:      base + "/userinfo",
		RevocationEndpoint:    base + "/oauth/revoke",
	}
}
