package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_FormPost(t *testing.T) {
	var gotContentType, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Encode()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	}))
	defer ts.Close()

	c := New()
	resp, err := c.Do(context.Background(), FormRequest(ts.URL, url.Values{
		"grant_type": {"authorization_code"},
		"code":       {"abc"},
	}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, ContentTypeForm, gotContentType)
	assert.Contains(t, gotBody, "grant_type=authorization_code")

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	require.NoError(t, resp.JSON(&parsed))
	assert.Equal(t, "tok-1", parsed.AccessToken)
	assert.Equal(t, 3600, parsed.ExpiresIn)
}

func TestDo_NonOKStatusIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer ts.Close()

	resp, err := New().Do(context.Background(), Request{URL: ts.URL, Method: http.MethodPost})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, string(resp.Body), "invalid_grant")
}

func TestDo_TransportError(t *testing.T) {
	_, err := New().Do(context.Background(), Request{URL: "http://127.0.0.1:1", Method: http.MethodGet})
	assert.Error(t, err)
}

func TestDo_ContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer ts.Close()
	defer close(blocked)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New().Do(ctx, Request{URL: ts.URL})
	assert.Error(t, err)
}

func TestDo_DefaultsToGET(t *testing.T) {
	var gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer ts.Close()

	_, err := New().Do(context.Background(), Request{URL: ts.URL})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
}
