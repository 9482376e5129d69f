package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// MockAuthenticator implements session.Authenticator for testing
type MockAuthenticator struct {
	// LoginFn allows test cases to mock the Login behavior
	LoginFn func(ctx context.Context, email, password string) (*domain.AuthResult, error)

	// Default values used when LoginFn isn't defined
	Result *domain.AuthResult
	Err    error

	mu        sync.Mutex
	callCount int
}

// Login implements the session.Authenticator interface
func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return m.Result, m.Err
}

// CallCount returns how many times Login was called
func (m *MockAuthenticator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
