package mocks

// MockTokenSource implements gateway.TokenSource for testing
type MockTokenSource struct {
	// TokenFn allows test cases to mock the Token behavior
	TokenFn func() string

	// Value is returned when TokenFn isn't defined
	Value string
}

// Token implements the gateway.TokenSource interface
func (m *MockTokenSource) Token() string {
	if m.TokenFn != nil {
		return m.TokenFn()
	}
	return m.Value
}
