package flow

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dpup/authkit/httpclient"
	"github.com/dpup/authkit/provider"
	"github.com/dpup/authkit/storage"
)

// stubClient is a scripted httpclient.Client that records every request.
type stubClient struct {
	mu        sync.Mutex
	requests  []httpclient.Request
	responses []stubResponse
	err       error
}

type stubResponse struct {
	status int
	body   string
}

func newStubClient() *stubClient {
	return &stubClient{}
}

func (c *stubClient) respondJSON(status int, v any) *stubClient {
	b, _ := json.Marshal(v)
	c.responses = append(c.responses, stubResponse{status: status, body: string(b)})
	return c
}

func (c *stubClient) respondRaw(status int, body string) *stubClient {
	c.responses = append(c.responses, stubResponse{status: status, body: body})
	return c
}

func (c *stubClient) failWith(err error) *stubClient {
	c.err = err
	return c
}

func (c *stubClient) Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	resp := stubResponse{status: http.StatusOK, body: "{}"}
	if len(c.responses) > 0 {
		resp = c.responses[0]
		if len(c.responses) > 1 {
			c.responses = c.responses[1:]
		}
	}
	return &httpclient.Response{Status: resp.status, Body: []byte(resp.body)}, nil
}

func (c *stubClient) requestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func (c *stubClient) lastRequest() httpclient.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[len(c.requests)-1]
}

func testConfig() *provider.Config {
	return &provider.Config{
		Issuer:                "https://idp.example.com",
		ClientID:              "spa-client",
		RedirectURI:           "https://app.example.com/callback",
		Scopes:                []string{"openid", "profile", "email"},
		AuthorizationEndpoint: "https://idp.example.com/authorize",
		TokenEndpoint:         "https://idp.example.com/token",
		LogoutEndpoint:        "https://idp.example.com/logout",
	}
}

func testStores() storage.Stores {
	return storage.Stores{
		Tokens: storage.NewMemory(),
		Flow:   storage.NewMemory(),
	}
}

func successTokenResponse() map[string]any {
	return map[string]any{
		"access_token":  "access-1",
		"token_type":    "Bearer",
		"expires_in":    3600,
		"refresh_token": "refresh-1",
		"id_token":      "id-1",
		"scope":         "openid profile email",
	}
}
