package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthFaultEvent reports a response the gateway classified as
// session-invalidating.
type AuthFaultEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// RequestID matches the X-Request-ID header of the failed request
	RequestID string `json:"request_id"`

	// Method and URL of the failed request
	Method string `json:"method"`
	URL    string `json:"url"`

	// Reason is the structured code or message that triggered the fault
	Reason string `json:"reason"`

	// Location is where the navigator was when the fault was observed
	Location string `json:"location"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewAuthFaultEvent creates an AuthFaultEvent stamped with a fresh ID.
func NewAuthFaultEvent(requestID, method, url, reason, location string) *AuthFaultEvent {
	return &AuthFaultEvent{
		ID:        uuid.New(),
		RequestID: requestID,
		Method:    method,
		URL:       url,
		Reason:    reason,
		Location:  location,
		CreatedAt: time.Now(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *AuthFaultEvent) error
}

// EventHandlerFunc adapts a plain function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *AuthFaultEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *AuthFaultEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the gateway to publish faults without knowing the session.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *AuthFaultEvent) error
}
