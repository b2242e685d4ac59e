// Package authtest provides an in-process identity provider for testing
// OAuth clients. The server implements just enough of the authorization
// code grant with PKCE to exercise a full login round trip, plus hooks for
// injecting protocol failures.
package authtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dpup/authkit/pkce"
	"github.com/dpup/authkit/provider"
)

// DefaultCodeTTL is how long an issued authorization code stays
// redeemable.
const DefaultCodeTTL = 5 * time.Minute

// Option configures the test server.
type Option func(*Server)

// WithCodeTTL overrides how long authorization codes remain valid.
func WithCodeTTL(d time.Duration) Option {
	return func(s *Server) { s.codeTTL = d }
}

// WithoutRefreshRotation makes the token endpoint omit the refresh token
// from refresh responses, mimicking providers that do not rotate.
func WithoutRefreshRotation() Option {
	return func(s *Server) { s.rotateRefresh = false }
}

// WithSigningKey sets the HMAC key used to sign issued ID tokens.
func WithSigningKey(key []byte) Option {
	return func(s *Server) { s.signingKey = key }
}

type issuedCode struct {
	challenge   string
	redirectURI string
	clientID    string
	scope       string
	expiresAt   time.Time
	redeemed    bool
}

// Server is a fake identity provider backed by httptest.
type Server struct {
	srv *httptest.Server

	codeTTL       time.Duration
	rotateRefresh bool
	signingKey    []byte

	mu            sync.Mutex
	codes         map[string]issuedCode
	refreshTokens map[string]string // refresh token -> scope
	nextFailure   *injectedFailure

	exchangeCount int
	refreshCount  int
}

type injectedFailure struct {
	status int
	body   string
}

// NewServer starts a fake provider. Callers must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{
		codeTTL:       DefaultCodeTTL,
		rotateRefresh: true,
		signingKey:    []byte("authtest-signing-key"),
		codes:         map[string]issuedCode{},
		refreshTokens: map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/authorize", s.handleAuthorize)
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/logout", s.handleLogout)
	s.srv = httptest.NewServer(mux)
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// URL returns the server's base URL.
func (s *Server) URL() string {
	return s.srv.URL
}

// Config returns a provider configuration pointing at this server.
func (s *Server) Config(clientID, redirectURI string) *provider.Config {
	return &provider.Config{
		Issuer:                s.srv.URL,
		ClientID:              clientID,
		RedirectURI:           redirectURI,
		Scopes:                []string{"openid", "profile", "email"},
		AuthorizationEndpoint: s.srv.URL + "/authorize",
		TokenEndpoint:         s.srv.URL + "/token",
		LogoutEndpoint:        s.srv.URL + "/logout",
	}
}

// FailNextTokenRequest makes the next token endpoint call return the given
// status and body instead of processing the grant.
func (s *Server) FailNextTokenRequest(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFailure = &injectedFailure{status: status, body: body}
}

// ExchangeCount reports how many authorization_code grants succeeded.
func (s *Server) ExchangeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchangeCount
}

// RefreshCount reports how many refresh_token grants were processed.
func (s *Server) RefreshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCount
}

// AuthorizeRedirect resolves an authorization request the way a user
// completing login would: it validates the request and returns the
// callback URL carrying a fresh single-use code. Use this instead of
// following the 302 when driving a client by hand.
func (s *Server) AuthorizeRedirect(authorizationURL string) (string, error) {
	u, err := url.Parse(authorizationURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	code, err := s.issueCode(q)
	if err != nil {
		return "", err
	}
	cb, err := url.Parse(q.Get("redirect_uri"))
	if err != nil {
		return "", err
	}
	cq := cb.Query()
	cq.Set("code", code)
	cq.Set("state", q.Get("state"))
	cb.RawQuery = cq.Encode()
	return cb.String(), nil
}

func (s *Server) issueCode(q url.Values) (string, error) {
	if q.Get("response_type") != "code" {
		return "", errInvalidRequest("response_type must be code")
	}
	if q.Get("code_challenge_method") != pkce.Method {
		return "", errInvalidRequest("only S256 code challenges are accepted")
	}
	if q.Get("client_id") == "" || q.Get("redirect_uri") == "" || q.Get("code_challenge") == "" {
		return "", errInvalidRequest("missing required parameter")
	}

	code := uuid.NewString()
	s.mu.Lock()
	s.codes[code] = issuedCode{
		challenge:   q.Get("code_challenge"),
		redirectURI: q.Get("redirect_uri"),
		clientID:    q.Get("client_id"),
		scope:       q.Get("scope"),
		expiresAt:   time.Now().Add(s.codeTTL),
	}
	s.mu.Unlock()
	return code, nil
}

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, err := s.issueCode(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cb, err := url.Parse(q.Get("redirect_uri"))
	if err != nil {
		http.Error(w, "invalid redirect_uri", http.StatusBadRequest)
		return
	}
	cq := cb.Query()
	cq.Set("code", code)
	cq.Set("state", q.Get("state"))
	cb.RawQuery = cq.Encode()
	http.Redirect(w, r, cb.String(), http.StatusFound)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		oauthError(w, http.StatusMethodNotAllowed, "invalid_request", "POST required")
		return
	}
	if err := r.ParseForm(); err != nil {
		oauthError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
		return
	}

	s.mu.Lock()
	if f := s.nextFailure; f != nil {
		s.nextFailure = nil
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		w.Write([]byte(f.body))
		return
	}
	s.mu.Unlock()

	switch r.PostFormValue("grant_type") {
	case "authorization_code":
		s.exchangeCode(w, r)
	case "refresh_token":
		s.refreshGrant(w, r)
	default:
		oauthError(w, http.StatusBadRequest, "unsupported_grant_type", "")
	}
}

func (s *Server) exchangeCode(w http.ResponseWriter, r *http.Request) {
	code := r.PostFormValue("code")
	verifier := r.PostFormValue("code_verifier")

	s.mu.Lock()
	issued, ok := s.codes[code]
	switch {
	case !ok || issued.redeemed:
		s.mu.Unlock()
		oauthError(w, http.StatusBadRequest, "invalid_grant", "unknown or already redeemed code")
		return
	case time.Now().After(issued.expiresAt):
		s.mu.Unlock()
		oauthError(w, http.StatusBadRequest, "invalid_grant", "authorization code expired")
		return
	case issued.clientID != r.PostFormValue("client_id"):
		s.mu.Unlock()
		oauthError(w, http.StatusBadRequest, "invalid_grant", "client_id mismatch")
		return
	case issued.redirectURI != r.PostFormValue("redirect_uri"):
		s.mu.Unlock()
		oauthError(w, http.StatusBadRequest, "invalid_grant", "redirect_uri mismatch")
		return
	case pkce.GenerateCodeChallenge(verifier) != issued.challenge:
		s.mu.Unlock()
		oauthError(w, http.StatusBadRequest, "invalid_grant", "code verifier does not match challenge")
		return
	}
	issued.redeemed = true
	s.codes[code] = issued
	s.exchangeCount++
	s.mu.Unlock()

	s.writeTokens(w, issued.clientID, issued.scope, true)
}

func (s *Server) refreshGrant(w http.ResponseWriter, r *http.Request) {
	token := r.PostFormValue("refresh_token")

	s.mu.Lock()
	scope, ok := s.refreshTokens[token]
	if !ok {
		s.mu.Unlock()
		oauthError(w, http.StatusBadRequest, "invalid_grant", "unknown refresh token")
		return
	}
	if s.rotateRefresh {
		delete(s.refreshTokens, token)
	}
	s.refreshCount++
	s.mu.Unlock()

	s.writeTokens(w, r.PostFormValue("client_id"), scope, s.rotateRefresh)
}

func (s *Server) writeTokens(w http.ResponseWriter, clientID, scope string, issueRefresh bool) {
	now := time.Now()
	idToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   s.srv.URL,
		"aud":   clientID,
		"sub":   "authtest-user",
		"email": "authtest-user@example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}).SignedString(s.signingKey)

	body := map[string]any{
		"access_token": uuid.NewString(),
		"token_type":   "Bearer",
		"expires_in":   3600,
		"id_token":     idToken,
		"scope":        scope,
	}
	if issueRefresh {
		refresh := uuid.NewString()
		s.mu.Lock()
		s.refreshTokens[refresh] = scope
		s.mu.Unlock()
		body["refresh_token"] = refresh
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if target := r.URL.Query().Get("post_logout_redirect_uri"); target != "" {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func oauthError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":             code,
		"error_description": description,
	})
}

type errInvalidRequest string

func (e errInvalidRequest) Error() string {
	return "invalid authorization request: " + string(e)
}
