package authkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/authkit/flow"
)

func TestClient_TokenSource(t *testing.T) {
	stores := testStores()
	flow.SaveTokens(stores.Tokens, validTokens())

	c := New(testConfig(), WithStores(stores), WithHTTPClient(newStubClient()))
	ts := c.TokenSource(context.Background())

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-stored", tok.AccessToken)
	assert.Equal(t, "refresh-stored", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Expiry, time.Minute)
	assert.True(t, tok.Valid())
}

func TestClient_TokenSource_NoTokens(t *testing.T) {
	c := New(testConfig(), WithStores(testStores()), WithHTTPClient(newStubClient()))

	tok, err := c.TokenSource(context.Background()).Token()
	assert.Nil(t, tok)
	assert.Error(t, err)
}

func TestClient_TokenSource_RefreshesExpiring(t *testing.T) {
	stores := testStores()
	flow.SaveTokens(stores.Tokens, expiredTokens())
	hc := newStubClient()
	hc.respondJSON(200, tokenResponse(t, "access-via-source"))

	c := New(testConfig(), WithStores(stores), WithHTTPClient(hc))

	tok, err := c.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	assert.Equal(t, "access-via-source", tok.AccessToken)
	assert.Equal(t, 1, hc.requestCount())
}
