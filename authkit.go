// Package authkit implements the OAuth 2.0 authorization code flow with
// PKCE (RFC 7636) for public clients: single-page applications and other
// hosts that cannot keep a client secret.
//
// The Client type is the top-level state machine. It builds authorization
// requests, validates and exchanges callback responses for tokens, persists
// and refreshes tokens, and notifies subscribers on every state transition.
// Framework bindings subscribe to the client and project its state into
// their own reactivity systems; no binding logic lives here.
//
// # Basic usage
//
//	client := authkit.New(provider.Keycloak("https://sso.example.com", "myrealm", provider.Preset{
//	    ClientID:    "my-app",
//	    RedirectURI: "https://app.example.com/callback",
//	}))
//
//	if err := client.Initialize(ctx); err != nil { ... }
//	if !client.State().Authenticated {
//	    client.Authorize(ctx, flow.AuthorizeOptions{PreservePath: true})
//	}
//
// Before each API call, fetch a token that is guaranteed not to be expired:
//
//	token := client.AccessToken(ctx)
//
// # Security notes
//
// ID tokens are decoded but not cryptographically verified: signature and
// claim validation (aud, iss, exp) is the responsibility of the server that
// accepts the access token. Do not make authorization decisions in the
// client based on decoded claims alone.
//
// Only the S256 PKCE challenge method is used; the downgradable "plain"
// method is never offered. The callback state parameter is compared in
// constant time.
package authkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/flow"
	"github.com/dpup/authkit/httpclient"
	"github.com/dpup/authkit/logging"
	"github.com/dpup/authkit/navigation"
	"github.com/dpup/authkit/provider"
	"github.com/dpup/authkit/storage"
)

// DefaultRefreshLookahead is how close to expiry a token may be before
// AccessToken refreshes it instead of returning it. This is a policy value,
// not a protocol requirement, and can be changed via WithRefreshLookahead.
const DefaultRefreshLookahead = 60 * time.Second

// Client is the OAuth flow orchestrator. All methods are safe for
// concurrent use; overlapping Initialize and HandleCallback invocations
// collapse into one, and concurrent token refreshes are single-flighted.
type Client struct {
	cfg    *provider.Config
	stores storage.Stores
	hc     httpclient.Client
	nav    navigation.Navigator
	logger logging.Logger

	userFetch     UserFetchFunc
	onStateChange func(AuthState)
	onError       func(*errors.Error)
	lookahead     time.Duration

	coordinator flow.RefreshCoordinator

	mu          sync.Mutex
	state       AuthState
	subscribers map[int]func(AuthState)
	nextSubID   int
	inflight    map[string]*inflightOp
}

// inflightOp tracks an idempotent operation so that at-least-once
// invocation (e.g. a UI framework running setup twice) executes the logic
// at most once. The entry is kept after completion: repeat calls resolve
// immediately with the original result.
type inflightOp struct {
	done chan struct{}
	err  error
}

// New returns a client for the given provider. The configuration is
// validated lazily: a broken config surfaces as a configuration_error from
// Initialize or Authorize rather than a constructor failure.
func New(cfg *provider.Config, opts ...Option) *Client {
	c := &Client{
		cfg:         cfg,
		stores:      storage.Defaults("authkit"),
		hc:          httpclient.New(),
		nav:         navigation.NewMemory(""),
		logger:      logging.NewNopLogger(),
		lookahead:   DefaultRefreshLookahead,
		state:       AuthState{Loading: true},
		subscribers: map[int]func(AuthState){},
		inflight:    map[string]*inflightOp{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current authentication state.
func (c *Client) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener invoked synchronously on every state
// transition, and returns an unsubscribe function. Listeners run in
// registration order, before the WithOnStateChange callback.
func (c *Client) Subscribe(listener func(AuthState)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = listener
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// Initialize brings the client to a settled state: handling a callback if
// the current URL is one, restoring and if necessary refreshing stored
// tokens, or settling as unauthenticated. It is idempotent: concurrent and
// repeat calls do not re-run the logic.
func (c *Client) Initialize(ctx context.Context) error {
	return c.runOnce("initialize", func() error {
		return c.initialize(c.withLogger(ctx))
	})
}

func (c *Client) initialize(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		c.setState(func(s *AuthState) {
			s.Loading = false
		})
		return err
	}

	current := c.nav.CurrentURL()
	if flow.IsCallbackURL(current, c.cfg.RedirectURI) {
		logging.Info(ctx, "authkit: initialize detected callback url")
		return c.handleCallback(ctx, current)
	}

	tokens := flow.LoadTokens(c.stores.Tokens)
	if tokens == nil {
		logging.Debug(ctx, "authkit: no stored tokens")
		c.setState(func(s *AuthState) {
			s.Loading = false
			s.Authenticated = false
		})
		return nil
	}

	if tokens.Expired() {
		logging.Info(ctx, "authkit: stored tokens expired, attempting refresh")
		refreshed := c.coordinator.Refresh(func() *flow.TokenState {
			return flow.Refresh(ctx, c.cfg, c.stores.Tokens, c.hc)
		})
		if refreshed == nil {
			logging.Info(ctx, "authkit: refresh failed, clearing stored tokens")
			flow.ClearTokens(c.stores.Tokens)
			c.setState(func(s *AuthState) {
				s.Loading = false
				s.Authenticated = false
				s.JWT = nil
				s.User = nil
			})
			return nil
		}
		tokens = refreshed
	}

	c.completeAuthentication(ctx, tokens)
	return nil
}

// HandleCallback validates the callback URL and exchanges its code for
// tokens. Pass the empty string to use the navigator's current URL. Like
// Initialize it is idempotent under at-least-once invocation, and it
// no-ops once the client is authenticated.
func (c *Client) HandleCallback(ctx context.Context, url string) error {
	return c.runOnce("handleCallback", func() error {
		return c.handleCallback(c.withLogger(ctx), url)
	})
}

func (c *Client) handleCallback(ctx context.Context, url string) error {
	if c.State().Authenticated {
		return nil
	}
	if url == "" {
		url = c.nav.CurrentURL()
	}

	c.setState(func(s *AuthState) {
		s.Loading = true
	})

	result := flow.ExchangeCode(ctx, c.cfg, c.stores, c.hc, url)
	if !result.OK() {
		logging.Warnw(ctx, "authkit: callback handling failed", "kind", result.Err.Kind(), "error", result.Err)
		c.setState(func(s *AuthState) {
			s.Loading = false
			s.Err = result.Err
		})
		if c.onError != nil {
			c.onError(result.Err)
		}
		return result.Err
	}

	c.completeAuthentication(ctx, result.Tokens)

	// Swap the callback URL out of the visible history in place; no
	// further navigation happens.
	if origin := flow.Origin(url); origin != "" {
		c.nav.ReplaceURL(origin + result.PreAuthPath)
	}
	return nil
}

// AccessToken returns an access token suitable for immediate use, or the
// empty string when none can be produced. A token inside the refresh
// lookahead window is refreshed first, so the caller never receives a token
// known to be expired. Concurrent callers share one refresh request.
func (c *Client) AccessToken(ctx context.Context) string {
	ctx = c.withLogger(ctx)

	tokens := flow.LoadTokens(c.stores.Tokens)
	if tokens == nil {
		return ""
	}
	if !tokens.ExpiresWithin(c.lookahead) {
		return tokens.AccessToken
	}

	logging.Debug(ctx, "authkit: access token expiring, refreshing before use")
	refreshed := c.coordinator.Refresh(func() *flow.TokenState {
		return flow.Refresh(ctx, c.cfg, c.stores.Tokens, c.hc)
	})
	if refreshed == nil {
		return ""
	}
	return refreshed.AccessToken
}

// RefreshToken forces a refresh using the stored refresh token, returning
// the new token state or nil on failure. Concurrent calls collapse into a
// single request. On success the user is re-loaded and subscribers are
// notified.
func (c *Client) RefreshToken(ctx context.Context) *flow.TokenState {
	ctx = c.withLogger(ctx)
	refreshed := c.coordinator.Refresh(func() *flow.TokenState {
		return flow.Refresh(ctx, c.cfg, c.stores.Tokens, c.hc)
	})
	if refreshed != nil {
		c.completeAuthentication(ctx, refreshed)
	}
	return refreshed
}

// IsRefreshing reports whether a token refresh is currently in flight.
func (c *Client) IsRefreshing() bool {
	return c.coordinator.IsRefreshing()
}

// Authorize starts a new authorization attempt and navigates to the
// provider. In a browser host nothing executes after the navigation; in
// other hosts control returns once the navigator has been invoked.
func (c *Client) Authorize(ctx context.Context, opts flow.AuthorizeOptions) error {
	return flow.Authorize(c.withLogger(ctx), c.cfg, c.stores.Flow, c.nav, opts)
}

// Logout clears local authentication state, transitions to
// unauthenticated, and (unless suppressed) navigates to the provider's
// logout endpoint. The local transition happens regardless of whether a
// redirect occurs.
func (c *Client) Logout(ctx context.Context, opts flow.LogoutOptions) {
	ctx = c.withLogger(ctx)
	c.setState(func(s *AuthState) {
		s.Loading = false
		s.Authenticated = false
		s.JWT = nil
		s.User = nil
		s.Err = nil
	})
	flow.Logout(ctx, c.cfg, c.stores, c.nav, opts)
}

// completeAuthentication decodes the ID token, runs the optional user
// fetch, and transitions to the authenticated state. A user-fetch failure
// does not block authentication: the tokens remain valid and User stays
// nil.
func (c *Client) completeAuthentication(ctx context.Context, tokens *flow.TokenState) {
	jwt := DecodeJWTPayload(tokens.IDToken)

	var user any
	if c.userFetch != nil {
		u, err := c.userFetch(ctx, UserFetchRequest{
			AccessToken: tokens.AccessToken,
			JWT:         jwt,
			HTTPClient:  c.hc,
		})
		if err != nil {
			logging.Warnw(ctx, "authkit: user fetch failed", "error", err)
		} else {
			user = u
		}
	}

	c.setState(func(s *AuthState) {
		s.Loading = false
		s.Authenticated = true
		s.JWT = jwt
		s.User = user
		s.Err = nil
	})
	logging.Infow(ctx, "authkit: authenticated", "has_refresh_token", tokens.RefreshToken != "")
}

// setState applies a mutation and synchronously notifies every listener
// with the new snapshot, subscribers first, then the state-change callback.
func (c *Client) setState(mutate func(*AuthState)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state
	ids := make([]int, 0, len(c.subscribers))
	for id := range c.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(AuthState), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, c.subscribers[id])
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	if c.onStateChange != nil {
		c.onStateChange(snapshot)
	}
}

// runOnce executes fn at most once per operation name. Later calls wait
// for and share the first call's result.
func (c *Client) runOnce(name string, fn func() error) error {
	c.mu.Lock()
	if op, ok := c.inflight[name]; ok {
		c.mu.Unlock()
		<-op.done
		return op.err
	}
	op := &inflightOp{done: make(chan struct{})}
	c.inflight[name] = op
	c.mu.Unlock()

	op.err = fn()
	close(op.done)
	return op.err
}

func (c *Client) withLogger(ctx context.Context) context.Context {
	return logging.With(ctx, c.logger)
}
