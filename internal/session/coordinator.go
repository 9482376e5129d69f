package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/taskdesk/internal/credstore"
	"github.com/phrazzld/taskdesk/internal/events"
)

// Coordinator drives a Guard from a ticker, store change notifications and
// AuthFault events. It implements events.EventHandler.
type Coordinator struct {
	guard    *Guard
	store    credstore.Store
	interval time.Duration
	faults   chan *events.AuthFaultEvent
	logger   *slog.Logger
}

var _ events.EventHandler = (*Coordinator)(nil)

// NewCoordinator creates a Coordinator polling guard every interval.
func NewCoordinator(guard *Guard, store credstore.Store, interval time.Duration, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		guard:    guard,
		store:    store,
		interval: interval,
		faults:   make(chan *events.AuthFaultEvent, 1),
		logger:   logger.With("component", "session_coordinator"),
	}
}

// HandleEvent queues an AuthFault for the Run loop. It never blocks; a fault
// already queued will tear the session down anyway.
func (c *Coordinator) HandleEvent(_ context.Context, event *events.AuthFaultEvent) error {
	select {
	case c.faults <- event:
	default:
		c.logger.Debug("auth fault already pending", "event_id", event.ID)
	}
	return nil
}

// Run evaluates the session until ctx is done.
func (c *Coordinator) Run(ctx context.Context) error {
	changes, err := c.store.Watch(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "store watch unavailable, polling only", "error", err)
		changes = nil
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.guard.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.guard.Check(ctx)
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			c.guard.Check(ctx)
		case event := <-c.faults:
			c.logger.InfoContext(ctx, "auth fault received",
				"event_id", event.ID,
				"request_id", event.RequestID,
				"reason", event.Reason,
				"location", event.Location)
			c.guard.Teardown(ctx, "auth_fault")
		}
	}
}
