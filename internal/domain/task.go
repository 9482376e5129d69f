package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ExecutionStatus is the progress of a task.
type ExecutionStatus string

// Execution statuses accepted by the service.
const (
	StatusPending    ExecutionStatus = "PENDING"
	StatusInProgress ExecutionStatus = "IN_PROGRESS"
	StatusDone       ExecutionStatus = "DONE"
	StatusCancelled  ExecutionStatus = "CANCELLED"
)

// TaskSituation is the lifecycle state of a task record.
type TaskSituation string

// Task situations accepted by the service.
const (
	SituationOpen      TaskSituation = "OPEN"
	SituationClosed    TaskSituation = "CLOSED"
	SituationCancelled TaskSituation = "CANCELLED"
)

// DateLayout is the wire format of every task date.
const DateLayout = "2006-01-02"

// MaxDescriptionLength mirrors the service's column width for descriptions.
const MaxDescriptionLength = 40

// ExecutionStatuses lists the allowed statuses in display order.
func ExecutionStatuses() []ExecutionStatus {
	return []ExecutionStatus{StatusPending, StatusInProgress, StatusDone, StatusCancelled}
}

// TaskSituations lists the allowed situations in display order.
func TaskSituations() []TaskSituation {
	return []TaskSituation{SituationOpen, SituationClosed, SituationCancelled}
}

// ParseExecutionStatus normalizes s (trim, upper-case) and checks it
// against the allowed set.
func ParseExecutionStatus(s string) (ExecutionStatus, error) {
	candidate := ExecutionStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, allowed := range ExecutionStatuses() {
		if candidate == allowed {
			return candidate, nil
		}
	}
	return "", NewValidationError("executionStatus", ErrInvalidStatus)
}

// ParseTaskSituation normalizes s (trim, upper-case) and checks it against
// the allowed set.
func ParseTaskSituation(s string) (TaskSituation, error) {
	candidate := TaskSituation(strings.ToUpper(strings.TrimSpace(s)))
	for _, allowed := range TaskSituations() {
		if candidate == allowed {
			return candidate, nil
		}
	}
	return "", NewValidationError("taskSituation", ErrInvalidSituation)
}

// Task is a unit of work assigned to a responsible user. The service is the
// system of record; the client only holds transient copies.
type Task struct {
	ID                  int64           `json:"id,omitempty"`
	PlannedDescription  string          `json:"plannedDescription"`
	ExecutedDescription string          `json:"executedDescription,omitempty"`
	CreationDate        string          `json:"creationDate,omitempty"`
	DueDate             string          `json:"dueDate"`
	ExecutionStatus     ExecutionStatus `json:"executionStatus,omitempty"`
	TaskSituation       TaskSituation   `json:"taskSituation,omitempty"`
	Responsible         *User           `json:"responsible,omitempty"`

	// Flattened responsible fields returned by the search endpoint.
	ResponsibleID   int64  `json:"responsibleId,omitempty"`
	ResponsibleName string `json:"responsibleName,omitempty"`
}

// ResponsibleDisplayName prefers the flattened name, then the nested user.
func (t Task) ResponsibleDisplayName() string {
	if name := strings.TrimSpace(t.ResponsibleName); name != "" {
		return name
	}
	if t.Responsible != nil {
		return t.Responsible.FullName()
	}
	return ""
}

// ValidateForCreate checks the rules a new task must satisfy before it is
// sent to the service.
func (t Task) ValidateForCreate() error {
	planned := strings.TrimSpace(t.PlannedDescription)
	if planned == "" {
		return NewValidationError("plannedDescription", ErrEmptyField)
	}
	if utf8.RuneCountInString(planned) > MaxDescriptionLength {
		return NewValidationError("plannedDescription", ErrFieldTooLong)
	}
	if strings.TrimSpace(t.DueDate) == "" {
		return NewValidationError("dueDate", ErrEmptyField)
	}
	if !IsDate(t.DueDate) {
		return NewValidationError("dueDate", ErrInvalidDate)
	}
	if t.Responsible == nil && t.ResponsibleID <= 0 {
		return NewValidationError("responsible", ErrMissingResponsible)
	}
	return nil
}

// WithResponsibleRef returns t with Responsible set to a reference to
// ResponsibleID when only the flat id is known. The service reads the
// nested responsible object on create and update.
func (t Task) WithResponsibleRef() Task {
	if t.Responsible == nil && t.ResponsibleID > 0 {
		t.Responsible = &User{ID: t.ResponsibleID}
	}
	return t
}

// CheckClosing enforces the closing rule: a task cannot move to DONE or
// CLOSED without a non-empty executed description.
func CheckClosing(status ExecutionStatus, situation TaskSituation, executed string) error {
	closing := status == StatusDone || situation == SituationClosed
	if closing && strings.TrimSpace(executed) == "" {
		return NewValidationError("executedDescription", ErrMissingExecutedNote)
	}
	return nil
}

// IsDate reports whether s is a YYYY-MM-DD date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(s))
	return err == nil
}
