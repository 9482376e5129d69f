// Package console serves a small local HTTP surface over the session guard,
// the task query engine and the task edit/delete coordinator.
//
// Views are plain JSON. Public routes cover the entry view, login, logout
// and registration; everything else sits behind the access controller and
// redirects to the entry route while the session is locked. Failures are
// turned into a single notice on the notice board and a sanitized error body.
package console
