// Package access gates protected routes on the session state.
//
// Every access attempt is evaluated afresh: the Controller asks its
// Authority whether the user is authenticated and either unlocks the
// requested route or redirects to the entry route. The Navigator records
// where the user currently is, which the gateway consults before reporting
// an authentication fault.
package access

import "sync"

// Navigator tracks the user's current route.
type Navigator struct {
	mu       sync.RWMutex
	location string
}

// NewNavigator creates a Navigator positioned at initial.
func NewNavigator(initial string) *Navigator {
	return &Navigator{location: initial}
}

// Location returns the current route.
func (n *Navigator) Location() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.location
}

// Visit records a granted access to path.
func (n *Navigator) Visit(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = path
}

// Redirect moves the user to to.
func (n *Navigator) Redirect(to string) {
	n.Visit(to)
}
