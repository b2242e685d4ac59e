package flow

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/authkit/navigation"
	"github.com/dpup/authkit/pkce"
	"github.com/dpup/authkit/storage"
)

func TestBuildAuthorizationURL(t *testing.T) {
	cfg := testConfig()
	flow := storage.NewMemory()
	nav := navigation.NewMemory("https://app.example.com/dashboard")

	raw, err := BuildAuthorizationURL(context.Background(), cfg, flow, nav, AuthorizeOptions{})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com/authorize", u.Scheme+"://"+u.Host+u.Path)

	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "spa-client", q.Get("client_id"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
	assert.Equal(t, "https://app.example.com/callback", q.Get("redirect_uri"))
	assert.Len(t, q.Get("code_challenge"), 43)
	assert.NotEmpty(t, q.Get("state"))
	assert.Empty(t, q.Get("prompt"))

	// State in the URL matches what was written to flow storage.
	assert.Equal(t, flow.Get(keyAuthState), q.Get("state"))
	verifier := flow.Get(keyCodeVerifier)
	require.Len(t, verifier, 43)
	assert.Equal(t, pkce.GenerateCodeChallenge(verifier), q.Get("code_challenge"))

	// Path not captured unless opted in.
	assert.Empty(t, flow.Get(keyPreAuthPath))
}

func TestBuildAuthorizationURL_FreshValuesPerCall(t *testing.T) {
	cfg := testConfig()
	flow := storage.NewMemory()
	nav := navigation.NewMemory("https://app.example.com/")

	first, err := BuildAuthorizationURL(context.Background(), cfg, flow, nav, AuthorizeOptions{})
	require.NoError(t, err)
	second, err := BuildAuthorizationURL(context.Background(), cfg, flow, nav, AuthorizeOptions{})
	require.NoError(t, err)

	q1 := mustQuery(t, first)
	q2 := mustQuery(t, second)
	assert.NotEqual(t, q1.Get("state"), q2.Get("state"))
	assert.NotEqual(t, q1.Get("code_challenge"), q2.Get("code_challenge"))

	// The second attempt overwrote the first's flow state.
	assert.Equal(t, flow.Get(keyAuthState), q2.Get("state"))
}

func TestBuildAuthorizationURL_PromptAndExtraParams(t *testing.T) {
	cfg := testConfig()
	cfg.ExtraAuthParams = map[string]string{
		"audience": "https://api.example.com",
		"source":   "provider",
	}

	raw, err := BuildAuthorizationURL(context.Background(), cfg, storage.NewMemory(), nil, AuthorizeOptions{
		Prompt: "consent",
		ExtraParams: map[string]string{
			"source": "call",
		},
	})
	require.NoError(t, err)

	q := mustQuery(t, raw)
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "https://api.example.com", q.Get("audience"))
	// Call-level params win on collision.
	assert.Equal(t, "call", q.Get("source"))
}

func TestBuildAuthorizationURL_PreservePath(t *testing.T) {
	flow := storage.NewMemory()
	nav := navigation.NewMemory("https://app.example.com/dashboard?tab=settings")

	_, err := BuildAuthorizationURL(context.Background(), testConfig(), flow, nav, AuthorizeOptions{
		PreservePath: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/dashboard?tab=settings", flow.Get(keyPreAuthPath))
}

func TestBuildAuthorizationURL_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ClientID = ""
	_, err := BuildAuthorizationURL(context.Background(), cfg, storage.NewMemory(), nil, AuthorizeOptions{})
	assert.Error(t, err)
}

func TestAuthorize_Navigates(t *testing.T) {
	flow := storage.NewMemory()
	nav := navigation.NewMemory("https://app.example.com/")

	require.NoError(t, Authorize(context.Background(), testConfig(), flow, nav, AuthorizeOptions{}))

	navs := nav.Navigations()
	require.Len(t, navs, 1)
	assert.Contains(t, navs[0], "https://idp.example.com/authorize?")
}

func TestConsumePreAuthPath(t *testing.T) {
	flow := storage.NewMemory()
	flow.Set(keyPreAuthPath, "/dashboard?tab=settings")

	assert.Equal(t, "/dashboard?tab=settings", ConsumePreAuthPath(flow))
	// Idempotent to the default afterwards.
	assert.Equal(t, "/", ConsumePreAuthPath(flow))
	assert.Equal(t, "/", ConsumePreAuthPath(flow))
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}
