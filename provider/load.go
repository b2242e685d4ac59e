package provider

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/internal/config"
)

// ConfigFile is the filename searched for by Load.
const ConfigFile = "authkit.yaml"

// LoadOption adjusts how configuration sources are assembled.
type LoadOption func(*loader)

// WithFile loads the given YAML file instead of searching for authkit.yaml.
func WithFile(path string) LoadOption {
	return func(l *loader) {
		l.file = path
		l.search = false
	}
}

// WithDefaults supplies default values using dotted keys, overridden by file
// and environment sources.
//
// Example:
//
//	provider.Load(provider.WithDefaults(map[string]interface{}{
//	    "provider.scopes": []string{"openid", "email"},
//	}))
func WithDefaults(defaults map[string]interface{}) LoadOption {
	return func(l *loader) {
		l.defaults = defaults
	}
}

type loader struct {
	file     string
	search   bool
	defaults map[string]interface{}
}

// Load builds a Config from layered sources, later sources overriding
// earlier ones:
//
//  1. Defaults supplied via WithDefaults
//  2. An authkit.yaml found in the working directory or any parent
//     (or the file named via WithFile)
//  3. Environment variables with the AUTHKIT__ prefix, e.g.
//     AUTHKIT__PROVIDER__CLIENT_ID → provider.clientId
//
// The returned config is validated before being returned.
func Load(opts ...LoadOption) (*Config, error) {
	l := &loader{search: true}
	for _, opt := range opts {
		opt(l)
	}

	k := koanf.New(".")

	if l.defaults != nil {
		if err := k.Load(confmap.Provider(l.defaults, "."), nil); err != nil {
			return nil, errors.WrapK(errors.KindConfigurationError, err)
		}
	}

	path := l.file
	if l.search {
		path = config.SearchForConfig(ConfigFile, ".")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.WrapK(errors.KindConfigurationError, err)
		}
	}

	if err := k.Load(env.Provider(config.EnvPrefix, ".", config.TransformEnv), nil); err != nil {
		return nil, errors.WrapK(errors.KindConfigurationError, err)
	}

	c := &Config{
		Issuer:                k.String("provider.issuer"),
		ClientID:              k.String("provider.clientId"),
		RedirectURI:           k.String("provider.redirectUri"),
		Scopes:                k.Strings("provider.scopes"),
		AuthorizationEndpoint: k.String("provider.authorizationEndpoint"),
		TokenEndpoint:         k.String("provider.tokenEndpoint"),
		LogoutEndpoint:        k.String("provider.logoutEndpoint"),
		UserInfoEndpoint:      k.String("provider.userInfoEndpoint"),
		RevocationEndpoint:    k.String("provider.revocationEndpoint"),
		PostLogoutRedirectURI: k.String("provider.postLogoutRedirectUri"),
		ExtraAuthParams:       k.StringMap("provider.extraAuthParams"),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
