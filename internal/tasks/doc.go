// Package tasks holds the task query-edit state machine.
//
// An Engine turns a FilterSpec into a query, normalizes whatever shape the
// service answers with into an id-ascending list, and serves sorted pages of
// that list locally. Responses that arrive after a newer search has been
// accepted are discarded. A Coordinator drafts edits, enforces the closing
// rule before anything is sent, runs the two-step delete protocol and
// refreshes the engine after every successful mutation.
package tasks
