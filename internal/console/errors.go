package console

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/session"
	"github.com/phrazzld/taskdesk/internal/tasks"
)

// statusFor maps an error to the console response status.
func statusFor(err error) int {
	var vErr *domain.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &vErr),
		errors.Is(err, session.ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.Is(err, tasks.ErrNoActiveSearch),
		errors.Is(err, tasks.ErrStaleResult):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAuthFault):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionFault):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFoundFault):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidationFault):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTransportFault),
		errors.Is(err, session.ErrInvalidToken):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
