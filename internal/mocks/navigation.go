package mocks

import "sync"

// MockNavigator implements session.Redirector and gateway.Locator for testing.
// It records every redirect and reports the last one as the location.
type MockNavigator struct {
	mu        sync.Mutex
	location  string
	redirects []string
}

// NewMockNavigator creates a MockNavigator positioned at location
func NewMockNavigator(location string) *MockNavigator {
	return &MockNavigator{location: location}
}

// Redirect implements session.Redirector
func (m *MockNavigator) Redirect(to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.location = to
	m.redirects = append(m.redirects, to)
}

// Location implements gateway.Locator
func (m *MockNavigator) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.location
}

// SetLocation moves the navigator without recording a redirect
func (m *MockNavigator) SetLocation(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.location = path
}

// Redirects returns a copy of every redirect target in order
func (m *MockNavigator) Redirects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.redirects))
	copy(out, m.redirects)
	return out
}
