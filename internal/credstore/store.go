// Package credstore persists the session material (bearer token and user
// profile) the client needs across restarts, and reports changes so that a
// session guard can react to writes made elsewhere.
package credstore

import (
	"context"
	"errors"
)

// Keys used for session material.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrInsecurePermissions is returned when the credential file is readable
// or writable by group or others.
var ErrInsecurePermissions = errors.New("credential file has insecure permissions")

// Store is a key/value store for session material. An absent key is a normal
// condition, reported through the boolean result of Get.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error

	// Watch returns a channel that receives a value whenever the stored data
	// may have changed. Notifications are coalesced; the channel is closed
	// when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// notify performs a non-blocking send; a pending notification already
// covers this change.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
