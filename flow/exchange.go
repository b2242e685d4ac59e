package flow

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/dpup/authkit/errors"
	"github.com/dpup/authkit/httpclient"
	"github.com/dpup/authkit/logging"
	"github.com/dpup/authkit/pkce"
	"github.com/dpup/authkit/provider"
	"github.com/dpup/authkit/storage"
)

// ExchangeResult is the tagged outcome of a code exchange. Exactly one of
// Tokens or Err is set. Failure here is an expected outcome (user denial,
// expired code, CSRF mismatch), not a programming error, so it is modeled
// as a value rather than a Go error return.
type ExchangeResult struct {
	// Tokens is the freshly persisted token state on success.
	Tokens *TokenState

	// PreAuthPath is the path captured before the authorization redirect,
	// defaulting to "/".
	PreAuthPath string

	// Err describes why the exchange was rejected.
	Err *errors.Error
}

// OK reports whether the exchange succeeded.
func (r ExchangeResult) OK() bool {
	return r.Err == nil
}

func exchangeError(err *errors.Error) ExchangeResult {
	return ExchangeResult{Err: err}
}

// ExchangeCode validates the callback URL against the stored flow state and
// exchanges the authorization code for tokens.
//
// Validation short-circuits on the first failure: a provider error
// parameter, then a missing code, then the CSRF state check, then a missing
// verifier, then the replay guard. Only when every check passes is the code
// marked as consumed and sent to the token endpoint.
//
// On success the token state is persisted, all flow keys except the replay
// guard are cleared, and the captured pre-auth path is returned.
func ExchangeCode(ctx context.Context, cfg *provider.Config, stores storage.Stores, hc httpclient.Client, rawURL string) ExchangeResult {
	params := ParseCallbackParams(rawURL)

	if params.Error != "" {
		msg := params.Error
		if params.ErrorDescription != "" {
			msg += ": " + params.ErrorDescription
		}
		logging.Warnw(ctx, "authkit: provider returned error on callback", "error", params.Error)
		return exchangeError(errors.NewK(errors.KindCallbackError, "authorization failed: "+msg).
			WithDetails(params.ErrorDescription))
	}

	if params.Code == "" {
		return exchangeError(errors.NewK(errors.KindCallbackError, "callback is missing an authorization code"))
	}

	if !validateStoredState(params.State, stores.Flow) {
		logging.Warn(ctx, "authkit: state mismatch on callback, possible CSRF")
		return exchangeError(errors.NewK(errors.KindInvalidState, "state parameter does not match the stored value"))
	}

	verifier := stores.Flow.Get(keyCodeVerifier)
	if verifier == "" {
		return exchangeError(errors.NewK(errors.KindTokenExchangeFailed, "no code verifier found, authorization flow was not initiated here"))
	}

	if stores.Flow.Get(keyExchangedCode) == params.Code {
		logging.Warn(ctx, "authkit: duplicate exchange attempt for the same authorization code")
		return exchangeError(errors.NewK(errors.KindTokenExchangeFailed, "authorization code already exchanged"))
	}

	// Record the code before the request goes out so that a concurrent or
	// duplicate callback cannot race a second exchange of the same code.
	stores.Flow.Set(keyExchangedCode, params.Code)

	redirectURI := stores.Flow.Get(keyRedirectURI)
	if redirectURI == "" {
		redirectURI = cfg.RedirectURI
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", cfg.ClientID)
	form.Set("redirect_uri", redirectURI)
	form.Set("code", params.Code)
	form.Set("code_verifier", verifier)

	logging.Infow(ctx, "authkit: exchanging authorization code", "endpoint", cfg.TokenEndpoint)
	resp, err := hc.Do(ctx, httpclient.FormRequest(cfg.TokenEndpoint, form))
	if err != nil {
		return exchangeError(errors.WrapK(errors.KindNetworkError, err))
	}
	if resp.Status != http.StatusOK {
		return exchangeError(errors.Newf(errors.KindTokenExchangeFailed, "token endpoint returned status %d", resp.Status).
			WithDetails(string(resp.Body)))
	}

	var tr tokenResponse
	if err := resp.JSON(&tr); err != nil {
		return exchangeError(errors.WrapK(errors.KindTokenExchangeFailed, err))
	}

	tokens := tr.toTokenState(time.Now())
	SaveTokens(stores.Tokens, tokens)

	preAuthPath := ConsumePreAuthPath(stores.Flow)
	clearFlowState(stores.Flow)

	logging.Info(ctx, "authkit: token exchange completed successfully")
	return ExchangeResult{Tokens: tokens, PreAuthPath: preAuthPath}
}

func validateStoredState(received string, flow storage.Store) bool {
	return pkce.ValidateState(received, flow.Get(keyAuthState))
}

// clearFlowState removes per-attempt keys but keeps the replay guard, which
// must outlive the exchange that set it.
func clearFlowState(flow storage.Store) {
	flow.Remove(keyCodeVerifier)
	flow.Remove(keyAuthState)
	flow.Remove(keyRedirectURI)
	flow.Remove(keyPreAuthPath)
}
