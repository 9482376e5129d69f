package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token decoding errors.
var (
	// ErrMissingToken indicates no usable token is stored.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidToken indicates the token cannot be decoded.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingExpiry indicates the token carries no exp claim.
	ErrMissingExpiry = errors.New("authentication token has no expiry")
)

// IsSentinel reports whether token is blank or one of the placeholder
// strings left behind by serializing a missing value.
func IsSentinel(token string) bool {
	switch strings.TrimSpace(token) {
	case "", "null", "undefined":
		return true
	}
	return false
}

// ExpiresAt returns the exp claim of token without verifying its signature.
// Verification is the service's job; the client only needs the expiry.
func ExpiresAt(token string) (time.Time, error) {
	if IsSentinel(token) {
		return time.Time{}, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp == nil {
		return time.Time{}, ErrMissingExpiry
	}
	return exp.Time, nil
}

// IsExpired reports whether token is unusable at now. Tokens that cannot be
// decoded, or that have no exp claim, are treated as expired.
func IsExpired(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return true
	}
	return !exp.After(now)
}
