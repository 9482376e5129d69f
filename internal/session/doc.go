// Package session decides whether the current user is authenticated and owns
// the lifecycle of the session material kept in a credential store.
//
// A Guard answers IsAuthenticated by decoding the stored bearer token and
// comparing its exp claim with the clock; any decoding failure counts as
// expired. Login writes fresh material and Logout or Teardown removes it.
// A Coordinator re-evaluates the guard on a fixed interval, on every store
// change notification and on every AuthFault event emitted by the gateway,
// so a session that stops being valid is torn down exactly once.
package session
