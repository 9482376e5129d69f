package gateway

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// ErrMalformedResponse indicates a success status with a body the client
// cannot interpret. It is a transport fault.
var ErrMalformedResponse = fmt.Errorf("malformed response: %w", domain.ErrTransportFault)

// Fault describes a failed exchange with the remote service. It unwraps to
// its Kind (one of the domain fault sentinels) and to the underlying
// transport error, if any.
type Fault struct {
	// Kind is the taxonomy sentinel, e.g. domain.ErrAuthFault
	Kind error

	// Status is the HTTP status, or 0 when no response was received
	Status int

	Method    string
	Path      string
	RequestID string

	// Code and Message come from the response body when present
	Code    string
	Message string

	// SessionInvalid is set when a 401 was classified as invalidating
	SessionInvalid bool

	// Err is the underlying transport error
	Err error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	switch {
	case f.Err != nil:
		return fmt.Sprintf("%s %s: %v: %v", f.Method, f.Path, f.Kind, f.Err)
	case f.Message != "":
		return fmt.Sprintf("%s %s: %v (status %d): %s", f.Method, f.Path, f.Kind, f.Status, f.Message)
	default:
		return fmt.Sprintf("%s %s: %v (status %d)", f.Method, f.Path, f.Kind, f.Status)
	}
}

// Unwrap exposes both the fault kind and the transport error.
func (f *Fault) Unwrap() []error {
	errs := []error{f.Kind}
	if f.Err != nil {
		errs = append(errs, f.Err)
	}
	return errs
}

// AsFault extracts a *Fault from err.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
