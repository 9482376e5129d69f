// Package domain contains the task-tracking entities the client works with
// (users, tasks, search filters), the rules the client enforces locally
// before anything reaches the network, and the fault taxonomy shared by the
// gateway, the session guard and the notice layer.
package domain
