package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// FaultBus delivers AuthFault events from the gateway to the session
// components subscribed in process. Delivery is synchronous, in
// subscription order.
type FaultBus struct {
	mu          sync.RWMutex
	subscribers []EventHandler
	logger      *slog.Logger
}

// NewFaultBus creates a FaultBus with no subscribers.
func NewFaultBus(logger *slog.Logger) *FaultBus {
	return &FaultBus{logger: logger.With("component", "auth_fault_bus")}
}

// Subscribe adds h to the set of handlers that receive every fault.
func (b *FaultBus) Subscribe(h EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, h)
}

// EmitEvent hands event to every subscriber. A failing subscriber does not
// stop delivery to the rest; all failures are joined into the result.
func (b *FaultBus) EmitEvent(ctx context.Context, event *AuthFaultEvent) error {
	b.mu.RLock()
	subscribers := append([]EventHandler(nil), b.subscribers...)
	b.mu.RUnlock()

	log := b.logger.With(
		"event_id", event.ID,
		"request_id", event.RequestID,
		"reason", event.Reason)

	if len(subscribers) == 0 {
		log.WarnContext(ctx, "auth fault dropped, nothing subscribed", "url", event.URL)
		return nil
	}
	log.DebugContext(ctx, "dispatching auth fault",
		"location", event.Location,
		"subscribers", len(subscribers))

	var errs []error
	for i, h := range subscribers {
		if err := h.HandleEvent(ctx, event); err != nil {
			log.ErrorContext(ctx, "auth fault subscriber failed", "subscriber", i, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
