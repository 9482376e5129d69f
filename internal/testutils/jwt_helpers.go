package testutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestJWTConstants provides standard values for JWT testing
const (
	// TestJWTSecret is a dedicated test-only secret for signing JWTs
	// This must never be used in production
	TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

	// TestTokenLifetime is the default lifetime for tokens issued by FakeRemote
	TestTokenLifetime = 15 * time.Minute
)

// MintToken signs an HS256 token for subject that expires at expiresAt.
func MintToken(t testing.TB, subject string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err, "failed to sign test token")
	return signed
}

// MintTokenWithoutExpiry signs a well-formed token that has no exp claim.
func MintTokenWithoutExpiry(t testing.TB, subject string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{Subject: subject, IssuedAt: jwt.NewNumericDate(time.Now())}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err, "failed to sign test token")
	return signed
}
