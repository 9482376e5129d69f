// Package events carries notifications between components that must not
// import each other.
//
// The gateway client classifies responses but never touches session state;
// when it sees a session-invalidating 401 it emits an AuthFaultEvent and the
// session coordinator, registered as an EventHandler, tears the session down
// on its own goroutine.
//
// The primary components are:
// - AuthFaultEvent: a 401 classified as an authentication fault
// - EventHandler: interface for components that react to events
// - EventEmitter: interface for components that publish events
package events
