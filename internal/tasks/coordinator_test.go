package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coordinatorFixture struct {
	api    *mocks.MockTaskAPI
	engine *Engine
	coord  *Coordinator
	now    time.Time
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	f := &coordinatorFixture{
		api: &mocks.MockTaskAPI{SearchBody: json.RawMessage(`[{"id":1},{"id":2}]`)},
		now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	f.engine = NewEngine(f.api, 8, discardLogger())
	f.coord = NewCoordinator(f.api, f.engine, 3*time.Second, discardLogger(),
		WithClock(func() time.Time { return f.now }))
	return f
}

func (f *coordinatorFixture) search(t *testing.T) {
	t.Helper()
	_, err := f.engine.Search(context.Background(), domain.FilterSpec{Description: "report"})
	require.NoError(t, err)
}

func TestBeginEdit(t *testing.T) {
	f := newCoordinatorFixture(t)

	draft := f.coord.BeginEdit(domain.Task{ID: 5, ExecutionStatus: "done", TaskSituation: " closed "})
	assert.Equal(t, "DONE", draft.ExecutionStatus)
	assert.Equal(t, "CLOSED", draft.TaskSituation)

	draft = f.coord.BeginEdit(domain.Task{ID: 5, Responsible: &domain.User{ID: 8}})
	assert.Equal(t, "PENDING", draft.ExecutionStatus)
	assert.Equal(t, "OPEN", draft.TaskSituation)
	assert.Equal(t, int64(8), draft.ResponsibleID)
}

func TestSaveClosingRule(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		situation     string
		executed      string
		wantErr       error
		wantSituation domain.TaskSituation
	}{
		{"done without note", "DONE", "OPEN", "", domain.ErrMissingExecutedNote, ""},
		{"closed without note", "IN_PROGRESS", "CLOSED", " ", domain.ErrMissingExecutedNote, ""},
		{"done forces closed", "DONE", "OPEN", "shipped", nil, domain.SituationClosed},
		{"in progress stays open", "in_progress", "open", "", nil, domain.SituationOpen},
		{"cancelled needs no note", "CANCELLED", "CANCELLED", "", nil, domain.SituationCancelled},
		{"unknown status", "FINISHED", "OPEN", "x", domain.ErrInvalidStatus, ""},
		{"unknown situation", "PENDING", "ARCHIVED", "x", domain.ErrInvalidSituation, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCoordinatorFixture(t)
			draft := f.coord.BeginEdit(domain.Task{ID: 1, PlannedDescription: "Write", DueDate: "2025-02-01"})
			draft.ExecutionStatus = tt.status
			draft.TaskSituation = tt.situation
			draft.ExecutedDescription = tt.executed

			saved, err := f.coord.Save(context.Background(), draft)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidationFault)
				assert.Empty(t, f.api.Updated(), "no network call on a local violation")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSituation, saved.TaskSituation)
			require.Len(t, f.api.Updated(), 1)
			assert.Equal(t, tt.wantSituation, f.api.Updated()[0].TaskSituation)
		})
	}
}

func TestSaveRefreshesActiveSearch(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.search(t)

	draft := f.coord.BeginEdit(domain.Task{ID: 1, PlannedDescription: "Write", DueDate: "2025-02-01"})
	_, err := f.coord.Save(context.Background(), draft)
	require.NoError(t, err)

	assert.Len(t, f.api.Queries(), 2, "initial search plus refresh")
}

func TestSaveFailureDoesNotRefresh(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.search(t)
	f.api.UpdateTaskFn = func(ctx context.Context, task domain.Task) (domain.Task, error) {
		return domain.Task{}, domain.ErrPermissionFault
	}

	draft := f.coord.BeginEdit(domain.Task{ID: 1})
	_, err := f.coord.Save(context.Background(), draft)
	assert.ErrorIs(t, err, domain.ErrPermissionFault)
	assert.Len(t, f.api.Queries(), 1)
}

func TestDeleteProtocol(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.search(t)
	ctx := context.Background()

	outcome, err := f.coord.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DeleteArmed, outcome)
	assert.Empty(t, f.api.Deleted())

	armed, ok := f.coord.Armed()
	require.True(t, ok)
	assert.Equal(t, int64(1), armed.TaskID)

	f.now = f.now.Add(2 * time.Second)
	outcome, err = f.coord.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DeleteConfirmed, outcome)
	assert.Equal(t, []int64{1}, f.api.Deleted())
	assert.Len(t, f.api.Queries(), 2, "confirmed delete refreshes")

	_, ok = f.coord.Armed()
	assert.False(t, ok, "confirmation disarms")

	outcome, err = f.coord.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DeleteArmed, outcome, "a third call starts over")
}

func TestDeleteOtherIDRearms(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	_, err := f.coord.Delete(ctx, 1)
	require.NoError(t, err)
	outcome, err := f.coord.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, DeleteArmed, outcome)

	armed, ok := f.coord.Armed()
	require.True(t, ok)
	assert.Equal(t, int64(2), armed.TaskID)

	outcome, err = f.coord.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DeleteArmed, outcome)
	assert.Empty(t, f.api.Deleted())
}

func TestDeleteExpiry(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	_, err := f.coord.Delete(ctx, 1)
	require.NoError(t, err)

	f.now = f.now.Add(3 * time.Second)
	_, ok := f.coord.Armed()
	assert.False(t, ok, "expired silently")

	outcome, err := f.coord.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DeleteArmed, outcome)
	assert.Empty(t, f.api.Deleted())
}

func TestDeleteFailure(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.api.DeleteTaskFn = func(ctx context.Context, id int64) error {
		return domain.ErrNotFoundFault
	}
	ctx := context.Background()

	_, err := f.coord.Delete(ctx, 4)
	require.NoError(t, err)
	_, err = f.coord.Delete(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrNotFoundFault)

	_, ok := f.coord.Armed()
	assert.False(t, ok)

	_, err = f.coord.Delete(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestCreate(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.search(t)
	f.api.CreateTaskFn = func(ctx context.Context, task domain.Task) (domain.Task, error) {
		task.ID = 42
		return task, nil
	}

	created, err := f.coord.Create(context.Background(), domain.Task{
		PlannedDescription: "  Plan sprint ",
		DueDate:            "2025-03-01",
		ResponsibleID:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "Plan sprint", f.api.Created()[0].PlannedDescription)
	require.NotNil(t, f.api.Created()[0].Responsible, "responsible is sent as a nested object")
	assert.Equal(t, int64(3), f.api.Created()[0].Responsible.ID)
	assert.Len(t, f.api.Queries(), 2)

	_, err = f.coord.Create(context.Background(), domain.Task{PlannedDescription: "x", DueDate: "2025-03-01"})
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "responsible", vErr.Field)
	assert.Len(t, f.api.Created(), 1)
}

func TestDeleteOutcomeString(t *testing.T) {
	assert.Equal(t, "armed", DeleteArmed.String())
	assert.Equal(t, "confirmed", DeleteConfirmed.String())
	assert.Equal(t, "unknown", DeleteOutcome(0).String())
}
