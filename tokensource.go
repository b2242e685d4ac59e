package authkit

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/flow"
)

// TokenSource adapts the client to the golang.org/x/oauth2 TokenSource
// interface, so it can be plugged into oauth2.NewClient and any API client
// that accepts one. Each Token call goes through the same refresh
// coordination as AccessToken.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &clientTokenSource{ctx: ctx, client: c}
}

type clientTokenSource struct {
	ctx    context.Context
	client *Client
}

func (ts *clientTokenSource) Token() (*oauth2.Token, error) {
	access := ts.client.AccessToken(ts.ctx)
	if access == "" {
		return nil, errors.NewK(errors.KindInvalidToken, "no valid access token available")
	}
	tokens := flow.LoadTokens(ts.client.stores.Tokens)
	if tokens == nil {
		return nil, errors.NewK(errors.KindInvalidToken, "no valid access token available")
	}
	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
	}
	if tokens.ExpiresAt > 0 {
		tok.Expiry = time.UnixMilli(tokens.ExpiresAt)
	}
	return tok, nil
}
