package flow

import (
	"net/url"
	"strings"
)

// CallbackParams are the query parameters the provider attaches when
// redirecting back to the application: code and state on success, error and
// error_description on failure.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// HasParams reports whether the URL carried any recognizable callback
// parameters at all.
func (p CallbackParams) HasParams() bool {
	return p.Code != "" || p.Error != "" || p.State != ""
}

// ParseCallbackParams extracts callback parameters from a URL. A malformed
// URL yields empty params, which downstream validation rejects as a missing
// code.
func ParseCallbackParams(rawURL string) CallbackParams {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CallbackParams{}
	}
	q := u.Query()
	return CallbackParams{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}
}

// IsCallbackURL reports whether rawURL points at the configured redirect URI
// and carries callback parameters. Origin and path must match the redirect
// URI; query parameters and fragments are ignored for the comparison.
func IsCallbackURL(rawURL, redirectURI string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	r, err := url.Parse(redirectURI)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Scheme, r.Scheme) || !strings.EqualFold(u.Host, r.Host) {
		return false
	}
	if trimPath(u.Path) != trimPath(r.Path) {
		return false
	}
	return ParseCallbackParams(rawURL).HasParams()
}

func trimPath(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// Origin returns the scheme://host portion of a URL, or the empty string
// when the URL cannot be parsed.
func Origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// PathWithQuery returns the path plus query string of a URL, defaulting to
// "/" for an empty path. Used to capture the pre-auth location.
func PathWithQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "/"
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}
