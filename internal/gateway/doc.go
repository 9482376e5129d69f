// Package gateway is the single path from the client to the remote task
// service.
//
// Outbound, every request gets a fresh X-Request-ID and, when the session
// guard holds a usable token, an Authorization bearer header. Inbound, every
// non-success response is classified into the fault taxonomy defined in the
// domain package. A 401 that invalidates the session is published as an
// AuthFault event unless the user is already on the entry route; the gateway
// never navigates or clears credentials itself. There are no retries.
package gateway
