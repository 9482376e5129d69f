package console

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/notify"
	"github.com/phrazzld/taskdesk/internal/tasks"
)

// MsgConfirmDelete asks the user to repeat a delete within the window.
const MsgConfirmDelete = "Click delete again to confirm."

// DeleteView is the result of DELETE /tasks/{id}.
type DeleteView struct {
	TaskID  int64  `json:"taskId"`
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

// SearchView is a result page plus the filter that produced it.
type SearchView struct {
	Filter domain.FilterSpec `json:"filter"`
	Page   tasks.Page        `json:"page"`
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", domain.ErrInvalidID)
	}
	return id, nil
}

func (c *Console) search(w http.ResponseWriter, r *http.Request) {
	var spec domain.FilterSpec
	if err := decodeJSON(r, &spec); err != nil {
		respondErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	page, err := c.engine.Search(r.Context(), spec)
	if err != nil && !errors.Is(err, tasks.ErrNoMatches) {
		c.fail(w, r, err)
		return
	}
	if err != nil {
		c.notices.PushError(err)
	}
	respondJSON(w, r, http.StatusOK, SearchView{Filter: spec, Page: page})
}

func (c *Console) clearSearch(w http.ResponseWriter, r *http.Request) {
	c.engine.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (c *Console) results(w http.ResponseWriter, r *http.Request) {
	var (
		page tasks.Page
		err  error
	)
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			c.fail(w, r, domain.NewValidationError("page", fmt.Errorf("must be a number: %w", convErr)))
			return
		}
		page, err = c.engine.Page(n)
	} else {
		page, err = c.engine.Current()
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, page)
}

func (c *Console) sort(w http.ResponseWriter, r *http.Request) {
	page, err := c.engine.Sort(chi.URLParam(r, "key"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, page)
}

func (c *Console) draft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	task, ok := c.engine.Find(id)
	if !ok {
		c.fail(w, r, fmt.Errorf("task %d is not in the result set: %w", id, domain.ErrNotFoundFault))
		return
	}
	respondJSON(w, r, http.StatusOK, c.tasks.BeginEdit(task))
}

func (c *Console) createTask(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := decodeJSON(r, &task); err != nil {
		respondErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := c.tasks.Create(r.Context(), task)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.notices.Push(notify.Success, "Task created.")
	respondJSON(w, r, http.StatusCreated, created)
}

// updateTask starts from the result set copy of the task when there is one,
// so that the body only needs the edited fields.
func (c *Console) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	draft := tasks.Draft{ID: id}
	if task, ok := c.engine.Find(id); ok {
		draft = c.tasks.BeginEdit(task)
	}
	if err := decodeJSON(r, &draft); err != nil {
		respondErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	draft.ID = id

	saved, err := c.tasks.Save(r.Context(), draft)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.notices.Push(notify.Success, "Task saved.")
	respondJSON(w, r, http.StatusOK, saved)
}

func (c *Console) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	outcome, err := c.tasks.Delete(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	view := DeleteView{TaskID: id, Outcome: outcome.String()}
	status := http.StatusOK
	if outcome == tasks.DeleteArmed {
		view.Message = MsgConfirmDelete
		status = http.StatusAccepted
		c.notices.Push(notify.Info, MsgConfirmDelete)
	} else {
		view.Message = "Task deleted."
		c.notices.Push(notify.Success, view.Message)
	}
	respondJSON(w, r, status, view)
}
