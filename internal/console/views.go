package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/gateway"
	"github.com/phrazzld/taskdesk/internal/notify"
	"github.com/phrazzld/taskdesk/internal/tasks"
)

// DashboardView is the landing view after login.
type DashboardView struct {
	Profile       domain.User        `json:"profile"`
	Location      string             `json:"location"`
	Filter        *domain.FilterSpec `json:"filter,omitempty"`
	Page          *tasks.Page        `json:"page,omitempty"`
	PendingDelete *int64             `json:"pendingDelete,omitempty"`
	Notices       []notify.Notice    `json:"notices"`
}

func (c *Console) dashboard(w http.ResponseWriter, r *http.Request) {
	profile, _ := c.session.Profile()
	view := DashboardView{
		Profile:  profile,
		Location: c.nav.Location(),
		Notices:  c.notices.Active(),
	}
	if spec, ok := c.engine.Spec(); ok {
		view.Filter = &spec
		if page, err := c.engine.Current(); err == nil {
			view.Page = &page
		}
	}
	if attempt, ok := c.tasks.Armed(); ok {
		view.PendingDelete = &attempt.TaskID
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (c *Console) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.directory.ListUsers(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	respondJSON(w, r, http.StatusOK, users)
}

func (c *Console) reportSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := c.directory.ReportSummary(r.Context())
	c.respondReport(w, r, rows, err)
}

func (c *Console) recalculate(w http.ResponseWriter, r *http.Request) {
	rows, err := c.directory.RecalculateCompletion(r.Context())
	if err == nil {
		c.notices.Push(notify.Success, "Completion percentages recalculated.")
	}
	c.respondReport(w, r, rows, err)
}

func (c *Console) respondReport(w http.ResponseWriter, r *http.Request, rows []gateway.ReportRow, err error) {
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []gateway.ReportRow{}
	}
	respondJSON(w, r, http.StatusOK, rows)
}

func (c *Console) listNotices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, c.notices.Active())
}

func (c *Console) dismissNotice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorAndLog(w, r, http.StatusBadRequest, "Invalid notice id", err)
		return
	}
	if !c.notices.Dismiss(id) {
		respondErrorAndLog(w, r, http.StatusNotFound, "Notice not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
