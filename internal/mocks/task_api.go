package mocks

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// MockTaskAPI implements tasks.SearchAPI and tasks.MutationAPI for testing
type MockTaskAPI struct {
	// SearchTasksFn allows test cases to mock the SearchTasks behavior
	SearchTasksFn func(ctx context.Context, query url.Values) (json.RawMessage, error)

	// CreateTaskFn allows test cases to mock the CreateTask behavior
	CreateTaskFn func(ctx context.Context, task domain.Task) (domain.Task, error)

	// UpdateTaskFn allows test cases to mock the UpdateTask behavior
	UpdateTaskFn func(ctx context.Context, task domain.Task) (domain.Task, error)

	// DeleteTaskFn allows test cases to mock the DeleteTask behavior
	DeleteTaskFn func(ctx context.Context, id int64) error

	// SearchBody is returned by SearchTasks when SearchTasksFn isn't defined
	SearchBody json.RawMessage

	mu      sync.Mutex
	queries []url.Values
	updated []domain.Task
	created []domain.Task
	deleted []int64
}

// SearchTasks implements the tasks.SearchAPI interface
func (m *MockTaskAPI) SearchTasks(ctx context.Context, query url.Values) (json.RawMessage, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SearchTasksFn != nil {
		return m.SearchTasksFn(ctx, query)
	}
	return m.SearchBody, nil
}

// CreateTask implements the tasks.MutationAPI interface
func (m *MockTaskAPI) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	m.mu.Lock()
	m.created = append(m.created, task)
	m.mu.Unlock()

	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, task)
	}
	return task, nil
}

// UpdateTask implements the tasks.MutationAPI interface
func (m *MockTaskAPI) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	m.mu.Lock()
	m.updated = append(m.updated, task)
	m.mu.Unlock()

	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, task)
	}
	return task, nil
}

// DeleteTask implements the tasks.MutationAPI interface
func (m *MockTaskAPI) DeleteTask(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()

	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return nil
}

// Queries returns every query passed to SearchTasks
func (m *MockTaskAPI) Queries() []url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]url.Values(nil), m.queries...)
}

// Updated returns every task passed to UpdateTask
func (m *MockTaskAPI) Updated() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Task(nil), m.updated...)
}

// Created returns every task passed to CreateTask
func (m *MockTaskAPI) Created() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Task(nil), m.created...)
}

// Deleted returns every id passed to DeleteTask
func (m *MockTaskAPI) Deleted() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.deleted...)
}
