// Package httpclient defines the transport contract consumed by the token
// exchange and refresh engine. A default implementation over net/http is
// provided; host applications can substitute anything that satisfies Client,
// for example to add retries, instrumentation or cancellation policies.
package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ContentTypeForm is the media type for OAuth token endpoint requests
// (RFC 6749 section 4.1.3).
const ContentTypeForm = "application/x-www-form-urlencoded"

// Request describes an outbound HTTP request.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// Response is the materialized result of a request. The full body is read
// before the response is returned.
type Response struct {
	Status  int
	Body    []byte
	Headers http.Header
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Client issues HTTP requests on behalf of the flow engine. Implementations
// must honor context cancellation; the engine itself imposes no timeouts.
type Client interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Option configures the default client.
type Option func(*defaultClient)

// WithHTTPClient substitutes the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *defaultClient) {
		c.hc = hc
	}
}

// WithTimeout sets a per-request timeout on the underlying client. Zero
// means no timeout, leaving cancellation entirely to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *defaultClient) {
		c.hc.Timeout = d
	}
}

// New returns a Client backed by net/http.
func New(opts ...Option) Client {
	c := &defaultClient{hc: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type defaultClient struct {
	hc *http.Client
}

func (c *defaultClient) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status:  resp.StatusCode,
		Body:    b,
		Headers: resp.Header,
	}, nil
}

// FormRequest builds a POST request with a form-encoded body, as used by the
// token endpoint.
func FormRequest(endpoint string, values url.Values) Request {
	return Request{
		URL:    endpoint,
		Method: http.MethodPost,
		Headers: map[string]string{
			"Content-Type": ContentTypeForm,
			"Accept":       "application/json",
		},
		Body: values.Encode(),
	}
}
