package flow

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dpup/authkit/httpclient"
	"github.com/dpup/authkit/logging"
	"github.com/dpup/authkit/provider"
	"github.com/dpup/authkit/storage"
)

// Refresh obtains a new token set using the stored refresh token. It never
// returns an error: any failure (no stored tokens, no refresh token, a
// rejection from the server, a transport fault) yields nil, and the caller
// decides whether that means logging the user out or surfacing a retry.
//
// On success the new token state fully replaces the old one, including a
// rotated refresh token when the server supplies one.
func Refresh(ctx context.Context, cfg *provider.Config, tokens storage.Store, hc httpclient.Client) *TokenState {
	current := LoadTokens(tokens)
	if current == nil || current.RefreshToken == "" {
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", cfg.ClientID)
	form.Set("refresh_token", current.RefreshToken)
	if len(cfg.Scopes) > 0 {
		form.Set("scope", strings.Join(cfg.Scopes, " "))
	}

	logging.Infow(ctx, "authkit: refreshing access token", "endpoint", cfg.TokenEndpoint)
	resp, err := hc.Do(ctx, httpclient.FormRequest(cfg.TokenEndpoint, form))
	if err != nil {
		logging.Warnw(ctx, "authkit: token refresh transport failure", "error", err)
		return nil
	}
	if resp.Status != http.StatusOK {
		logging.Warnw(ctx, "authkit: token refresh rejected", "status", resp.Status)
		return nil
	}

	var tr tokenResponse
	if err := resp.JSON(&tr); err != nil {
		logging.Warnw(ctx, "authkit: token refresh response unparseable", "error", err)
		return nil
	}

	next := tr.toTokenState(time.Now())
	if next.RefreshToken == "" {
		// Server did not rotate; keep the old refresh token.
		next.RefreshToken = current.RefreshToken
	}
	SaveTokens(tokens, next)
	logging.Info(ctx, "authkit: access token refreshed")
	return next
}

// RefreshCoordinator collapses concurrent refresh attempts into a single
// in-flight request whose settled result is shared by every caller. This
// prevents a thundering herd when several near-simultaneous API calls all
// notice an expiring token. Once a refresh settles, the next call starts a
// new one.
//
// The zero value is ready to use.
type RefreshCoordinator struct {
	group      singleflight.Group
	refreshing atomic.Int32
}

// Refresh runs fn, deduplicating against any refresh already in flight.
// Every concurrent caller receives the same result, successful or not.
func (c *RefreshCoordinator) Refresh(fn func() *TokenState) *TokenState {
	v, _, _ := c.group.Do("refresh", func() (interface{}, error) {
		c.refreshing.Add(1)
		defer c.refreshing.Add(-1)
		return fn(), nil
	})
	if ts, ok := v.(*TokenState); ok {
		return ts
	}
	return nil
}

// IsRefreshing reports whether a refresh is currently outstanding.
func (c *RefreshCoordinator) IsRefreshing() bool {
	return c.refreshing.Load() > 0
}
