package testutils

import (
	"github.com/phrazzld/taskdesk/internal/domain"
)

// TaskOption customizes a test task
type TaskOption func(*domain.Task)

// WithTaskID sets the task ID
func WithTaskID(id int64) TaskOption {
	return func(t *domain.Task) { t.ID = id }
}

// WithTaskDescription sets the planned description
func WithTaskDescription(desc string) TaskOption {
	return func(t *domain.Task) { t.PlannedDescription = desc }
}

// WithTaskExecuted sets the executed description
func WithTaskExecuted(desc string) TaskOption {
	return func(t *domain.Task) { t.ExecutedDescription = desc }
}

// WithTaskStatus sets the execution status
func WithTaskStatus(status domain.ExecutionStatus) TaskOption {
	return func(t *domain.Task) { t.ExecutionStatus = status }
}

// WithTaskSituation sets the task situation
func WithTaskSituation(situation domain.TaskSituation) TaskOption {
	return func(t *domain.Task) { t.TaskSituation = situation }
}

// WithTaskDates sets the creation and due dates
func WithTaskDates(created, due string) TaskOption {
	return func(t *domain.Task) {
		t.CreationDate = created
		t.DueDate = due
	}
}

// WithTaskResponsible assigns the task to user
func WithTaskResponsible(user domain.User) TaskOption {
	return func(t *domain.Task) {
		u := user.Profile()
		t.Responsible = &u
		t.ResponsibleID = u.ID
		t.ResponsibleName = u.FullName()
	}
}

// NewTestTask creates a valid open task with sensible defaults
func NewTestTask(opts ...TaskOption) domain.Task {
	task := domain.Task{
		PlannedDescription: "Test task",
		CreationDate:       "2025-01-10",
		DueDate:            "2025-02-01",
		ExecutionStatus:    domain.StatusPending,
		TaskSituation:      domain.SituationOpen,
	}
	for _, opt := range opts {
		opt(&task)
	}
	return task
}

// NewTestUser creates a user profile
func NewTestUser(id int64, first, last, email string) domain.User {
	return domain.User{ID: id, FirstName: first, LastName: last, Email: email}
}
