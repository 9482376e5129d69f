package tasks

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// MutationAPI changes tasks on the service.
type MutationAPI interface {
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Refresher re-runs the active search.
type Refresher interface {
	Refresh(ctx context.Context) (Page, error)
}

// DeleteOutcome is the result of one Delete call.
type DeleteOutcome int

// Delete outcomes.
const (
	// DeleteArmed means the request was recorded and must be repeated
	// within the confirmation window.
	DeleteArmed DeleteOutcome = iota + 1

	// DeleteConfirmed means the task was deleted.
	DeleteConfirmed
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteArmed:
		return "armed"
	case DeleteConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// DeleteAttempt is an armed, unconfirmed delete.
type DeleteAttempt struct {
	TaskID  int64
	ArmedAt time.Time
}

// Draft is an editable copy of a task. Status and situation are kept as
// free text until Save validates them.
type Draft struct {
	ID                  int64        `json:"id"`
	PlannedDescription  string       `json:"plannedDescription"`
	ExecutedDescription string       `json:"executedDescription"`
	CreationDate        string       `json:"creationDate,omitempty"`
	DueDate             string       `json:"dueDate"`
	ExecutionStatus     string       `json:"executionStatus"`
	TaskSituation       string       `json:"taskSituation"`
	Responsible         *domain.User `json:"responsible,omitempty"`
	ResponsibleID       int64        `json:"responsibleId,omitempty"`
}

// Coordinator runs edits, creates and the two-step delete protocol.
type Coordinator struct {
	api       MutationAPI
	refresher Refresher
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu    sync.Mutex
	armed *DeleteAttempt
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithClock overrides the clock used for the confirmation window.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a Coordinator. Delete confirmations expire after
// ttl; refresher is re-run after every successful mutation.
func NewCoordinator(api MutationAPI, refresher Refresher, ttl time.Duration, logger *slog.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		api:       api,
		refresher: refresher,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger.With("component", "task_coordinator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeginEdit creates a draft of task. Status and situation are upper-cased
// and default to PENDING and OPEN.
func (c *Coordinator) BeginEdit(task domain.Task) Draft {
	status := strings.ToUpper(strings.TrimSpace(string(task.ExecutionStatus)))
	if status == "" {
		status = string(domain.StatusPending)
	}
	situation := strings.ToUpper(strings.TrimSpace(string(task.TaskSituation)))
	if situation == "" {
		situation = string(domain.SituationOpen)
	}

	responsibleID := task.ResponsibleID
	if task.Responsible != nil && task.Responsible.ID != 0 {
		responsibleID = task.Responsible.ID
	}

	return Draft{
		ID:                  task.ID,
		PlannedDescription:  task.PlannedDescription,
		ExecutedDescription: task.ExecutedDescription,
		CreationDate:        task.CreationDate,
		DueDate:             task.DueDate,
		ExecutionStatus:     status,
		TaskSituation:       situation,
		Responsible:         task.Responsible,
		ResponsibleID:       responsibleID,
	}
}

// Save validates draft and sends the full task. DONE forces CLOSED. A task
// moving to DONE or CLOSED needs an executed description; violations are
// returned without any network call.
func (c *Coordinator) Save(ctx context.Context, draft Draft) (domain.Task, error) {
	if draft.ID <= 0 {
		return domain.Task{}, domain.NewValidationError("id", domain.ErrInvalidID)
	}
	status, err := domain.ParseExecutionStatus(draft.ExecutionStatus)
	if err != nil {
		return domain.Task{}, err
	}
	situation, err := domain.ParseTaskSituation(draft.TaskSituation)
	if err != nil {
		return domain.Task{}, err
	}
	if status == domain.StatusDone {
		situation = domain.SituationClosed
	}
	if err := domain.CheckClosing(status, situation, draft.ExecutedDescription); err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		ID:                  draft.ID,
		PlannedDescription:  strings.TrimSpace(draft.PlannedDescription),
		ExecutedDescription: strings.TrimSpace(draft.ExecutedDescription),
		CreationDate:        draft.CreationDate,
		DueDate:             draft.DueDate,
		ExecutionStatus:     status,
		TaskSituation:       situation,
		Responsible:         draft.Responsible,
		ResponsibleID:       draft.ResponsibleID,
	}.WithResponsibleRef()

	saved, err := c.api.UpdateTask(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}
	c.logger.InfoContext(ctx, "task updated",
		"task_id", saved.ID,
		"status", saved.ExecutionStatus,
		"situation", saved.TaskSituation)
	c.refresh(ctx)
	return saved, nil
}

// Create validates and creates a task, refreshing the active search.
func (c *Coordinator) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	task.PlannedDescription = strings.TrimSpace(task.PlannedDescription)
	task.DueDate = strings.TrimSpace(task.DueDate)
	if err := task.ValidateForCreate(); err != nil {
		return domain.Task{}, err
	}
	task = task.WithResponsibleRef()

	created, err := c.api.CreateTask(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}
	c.logger.InfoContext(ctx, "task created", "task_id", created.ID)
	c.refresh(ctx)
	return created, nil
}

// Delete runs the two-step protocol. The first call for id arms it and
// returns DeleteArmed; a second call for the same id within the
// confirmation window deletes it and returns DeleteConfirmed. A call for
// another id re-arms, and an expired arm behaves as if never set.
func (c *Coordinator) Delete(ctx context.Context, id int64) (DeleteOutcome, error) {
	if id <= 0 {
		return 0, domain.NewValidationError("id", domain.ErrInvalidID)
	}

	c.mu.Lock()
	now := c.now()
	if c.armedLocked(now) && c.armed.TaskID == id {
		c.armed = nil
		c.mu.Unlock()

		if err := c.api.DeleteTask(ctx, id); err != nil {
			return 0, err
		}
		c.logger.InfoContext(ctx, "task deleted", "task_id", id)
		c.refresh(ctx)
		return DeleteConfirmed, nil
	}

	c.armed = &DeleteAttempt{TaskID: id, ArmedAt: now}
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "delete armed", "task_id", id, "ttl", c.ttl)
	return DeleteArmed, nil
}

// Armed returns the pending delete attempt, if it has not expired.
func (c *Coordinator) Armed() (DeleteAttempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.armedLocked(c.now()) {
		return DeleteAttempt{}, false
	}
	return *c.armed, true
}

// armedLocked reports whether an unexpired attempt exists, dropping an
// expired one.
func (c *Coordinator) armedLocked(now time.Time) bool {
	if c.armed == nil {
		return false
	}
	if now.Sub(c.armed.ArmedAt) >= c.ttl {
		c.armed = nil
		return false
	}
	return true
}

func (c *Coordinator) refresh(ctx context.Context) {
	if c.refresher == nil {
		return
	}
	_, err := c.refresher.Refresh(ctx)
	switch {
	case err == nil, errors.Is(err, ErrNoActiveSearch), errors.Is(err, ErrNoMatches), errors.Is(err, ErrStaleResult):
	default:
		c.logger.WarnContext(ctx, "refresh after mutation failed", "error", err)
	}
}
