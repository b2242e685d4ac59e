package authkit

import (
	"time"

	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/httpclient"
	"github.com/dpup/authkit/logging"
	"github.com/dpup/authkit/navigation"
	"github.com/dpup/authkit/storage"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for token endpoint and
// user fetch requests.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithStores replaces both the token and flow stores.
func WithStores(s storage.Stores) Option {
	return func(c *Client) { c.stores = s }
}

// WithTokenStore replaces only the token store.
func WithTokenStore(s storage.Store) Option {
	return func(c *Client) { c.stores.Tokens = s }
}

// WithFlowStore replaces only the flow store. The flow store must survive
// the redirect to the provider and back, so an in-memory store is only
// appropriate in tests and non-browser hosts.
func WithFlowStore(s storage.Store) Option {
	return func(c *Client) { c.stores.Flow = s }
}

// WithNavigator overrides how the client reads and changes the current
// location.
func WithNavigator(n navigation.Navigator) Option {
	return func(c *Client) { c.nav = n }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserFetch installs a function that loads an application user object
// after each successful authentication or refresh.
func WithUserFetch(fn UserFetchFunc) Option {
	return func(c *Client) { c.userFetch = fn }
}

// WithOnStateChange installs a callback invoked after subscribers on every
// state transition.
func WithOnStateChange(fn func(AuthState)) Option {
	return func(c *Client) { c.onStateChange = fn }
}

// WithOnError installs a callback invoked when callback handling fails.
func WithOnError(fn func(*errors.Error)) Option {
	return func(c *Client) { c.onError = fn }
}

// WithRefreshLookahead sets how close to expiry a token may get before
// AccessToken refreshes it. Values <= 0 reset to the default.
func WithRefreshLookahead(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			d = DefaultRefreshLookahead
		}
		c.lookahead = d
	}
}
