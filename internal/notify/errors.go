package notify

import (
	"errors"
	"strings"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/gateway"
	"github.com/phrazzld/taskdesk/internal/session"
	"github.com/phrazzld/taskdesk/internal/tasks"
)

// Messages for faults without a more specific text.
const (
	MsgSessionExpired   = "Your session has expired. Please sign in again."
	MsgPermissionDenied = "You do not have permission to perform this action."
	MsgNotFound         = "The requested record was not found."
	MsgRejected         = "The request was rejected by the server."
	MsgUnavailable      = "The task service is unavailable. Please try again later."
	MsgNoMatches        = "No tasks match the search."
	MsgNoActiveSearch   = "Run a search first."
	MsgMissingLogin     = "Email and password are required."
	MsgBadCredentials   = "Invalid email or password."
	MsgUnusableSession  = "The service issued an unusable session. Please sign in again."
	MsgUnexpected       = "An unexpected error occurred."
)

// FromError returns the single notice for err. It reports false for nil and
// for stale search results, which are dropped silently.
func (f *Factory) FromError(err error) (Notice, bool) {
	if err == nil || errors.Is(err, tasks.ErrStaleResult) {
		return Notice{}, false
	}
	severity, message := describe(err)
	return f.New(severity, message), true
}

func describe(err error) (Severity, string) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return Warning, vErr.Error()
	}

	if fault, ok := gateway.AsFault(err); ok && strings.HasPrefix(fault.Path, gateway.LoginPath) &&
		(errors.Is(err, domain.ErrAuthFault) || errors.Is(err, domain.ErrNotFoundFault)) {
		return Warning, MsgBadCredentials
	}

	switch {
	case errors.Is(err, tasks.ErrNoMatches):
		return Info, MsgNoMatches
	case errors.Is(err, tasks.ErrNoActiveSearch):
		return Info, MsgNoActiveSearch
	case errors.Is(err, session.ErrMissingCredentials):
		return Warning, MsgMissingLogin
	case errors.Is(err, session.ErrInvalidToken):
		return Danger, MsgUnusableSession
	case errors.Is(err, domain.ErrAuthFault):
		return Warning, MsgSessionExpired
	case errors.Is(err, domain.ErrPermissionFault):
		return Danger, MsgPermissionDenied
	case errors.Is(err, domain.ErrNotFoundFault):
		return Warning, MsgNotFound
	case errors.Is(err, domain.ErrValidationFault):
		if fault, ok := gateway.AsFault(err); ok && strings.TrimSpace(fault.Message) != "" {
			return Warning, strings.TrimSpace(fault.Message)
		}
		return Warning, MsgRejected
	case errors.Is(err, domain.ErrTransportFault):
		return Danger, MsgUnavailable
	default:
		return Danger, MsgUnexpected
	}
}
