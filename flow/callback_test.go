package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCallbackParams(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected CallbackParams
	}{
		{
			"success callback",
			"https://app.example.com/callback?code=abc&state=xyz",
			CallbackParams{Code: "abc", State: "xyz"},
		},
		{
			"error callback",
			"https://app.example.com/callback?error=access_denied&error_description=nope",
			CallbackParams{Error: "access_denied", ErrorDescription: "nope"},
		},
		{
			"no params",
			"https://app.example.com/callback",
			CallbackParams{},
		},
		{
			"malformed url",
			"://bad",
			CallbackParams{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCallbackParams(tt.url))
		})
	}
}

func TestIsCallbackURL(t *testing.T) {
	redirect := "https://app.example.com/callback"
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"callback with code", "https://app.example.com/callback?code=a&state=s", true},
		{"callback with error", "https://app.example.com/callback?error=denied", true},
		{"callback without params", "https://app.example.com/callback", false},
		{"different path", "https://app.example.com/other?code=a", false},
		{"different host", "https://evil.example.com/callback?code=a", false},
		{"different scheme", "http://app.example.com/callback?code=a", false},
		{"trailing slash tolerated", "https://app.example.com/callback/?code=a", true},
		{"case-insensitive host", "https://APP.example.com/callback?code=a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCallbackURL(tt.url, redirect))
		})
	}
}

func TestOrigin(t *testing.T) {
	assert.Equal(t, "https://app.example.com", Origin("https://app.example.com/x/y?z=1"))
	assert.Equal(t, "", Origin("not a url"))
	assert.Equal(t, "", Origin("/relative/path"))
}

func TestPathWithQuery(t *testing.T) {
	assert.Equal(t, "/dashboard?tab=settings", PathWithQuery("https://a.example.com/dashboard?tab=settings"))
	assert.Equal(t, "/", PathWithQuery("https://a.example.com"))
	assert.Equal(t, "/x", PathWithQuery("https://a.example.com/x"))
}
