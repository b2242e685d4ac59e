package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/authkit/errors"
)

const testYAML = `
provider:
  issuer: https://idp.example.com
  clientId: from-file
  redirectUri: https://app.example.com/callback
  scopes:
    - openid
    - email
  authorizationEndpoint: https://idp.example.com/authorize
  tokenEndpoint: https://idp.example.com/token
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	c, err := Load(WithFile(writeConfig(t)))
	require.NoError(t, err)

	assert.Equal(t, "from-file", c.ClientID)
	assert.Equal(t, []string{"openid", "email"}, c.Scopes)
	assert.Equal(t, "https://idp.example.com/token", c.TokenEndpoint)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("AUTHKIT__PROVIDER__CLIENT_ID", "from-env")

	c, err := Load(WithFile(writeConfig(t)))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.ClientID)
}

func TestLoad_DefaultsAreLowestPrecedence(t *testing.T) {
	c, err := Load(
		WithDefaults(map[string]interface{}{
			"provider.clientId":              "from-defaults",
			"provider.postLogoutRedirectUri": "https://app.example.com/bye",
		}),
		WithFile(writeConfig(t)),
	)
	require.NoError(t, err)

	// File wins over defaults; a key only present in defaults survives.
	assert.Equal(t, "from-file", c.ClientID)
	assert.Equal(t, "https://app.example.com/bye", c.PostLogoutRedirectURI)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  clientId: only-id\n"), 0o644))

	_, err := Load(WithFile(path))
	require.Error(t, err)
	assert.Equal(t, errors.KindConfigurationError, errors.KindOf(err))
}
