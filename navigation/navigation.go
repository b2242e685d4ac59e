// Package navigation abstracts the host environment's notion of a current
// location. In a browser this maps onto window.location and the history
// API; in tests and non-browser hosts an in-memory implementation is used.
// The core never touches global environment state directly.
package navigation

import "sync"

// Navigator is the capability the flow engine uses to observe and change
// the current location.
type Navigator interface {
	// CurrentURL returns the full current URL, including query parameters.
	CurrentURL() string

	// ReplaceURL swaps the visible URL in place without triggering a
	// navigation or adding a history entry. Used to scrub callback
	// parameters after a successful exchange.
	ReplaceURL(url string)

	// NavigateTo performs a full navigation to the given URL. For the
	// authorization redirect this is a point of no return: nothing after
	// the call should be assumed to run in the current page lifetime.
	NavigateTo(url string)
}

// Memory is an in-memory Navigator. It records every navigation, which
// makes flow behavior assertable in tests, and is a working default for
// hosts that drive the flow without a real browser surface.
type Memory struct {
	mu          sync.Mutex
	current     string
	navigations []string
	replaced    []string
}

// NewMemory returns a Memory navigator positioned at the given URL.
func NewMemory(current string) *Memory {
	return &Memory{current: current}
}

func (m *Memory) CurrentURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Memory) ReplaceURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = url
	m.replaced = append(m.replaced, url)
}

func (m *Memory) NavigateTo(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = url
	m.navigations = append(m.navigations, url)
}

// Navigations returns every URL passed to NavigateTo, oldest first.
func (m *Memory) Navigations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.navigations...)
}

// Replacements returns every URL passed to ReplaceURL, oldest first.
func (m *Memory) Replacements() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.replaced...)
}
