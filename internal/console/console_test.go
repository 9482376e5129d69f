package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/taskdesk/internal/access"
	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/gateway"
	"github.com/phrazzld/taskdesk/internal/mocks"
	"github.com/phrazzld/taskdesk/internal/notify"
	"github.com/phrazzld/taskdesk/internal/session"
	"github.com/phrazzld/taskdesk/internal/tasks"
	"github.com/phrazzld/taskdesk/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSessionConfig = config.SessionConfig{
	PollInterval:   time.Second,
	EntryRoute:     "/",
	DashboardRoute: "/dashboard",
	Store:          "memory",
}

type stubSession struct {
	authenticated atomic.Bool
	user          domain.User
	loginErr      error
	nav           *access.Navigator
}

func (s *stubSession) IsAuthenticated() bool { return s.authenticated.Load() }

func (s *stubSession) Profile() (domain.User, bool) {
	return s.user, s.authenticated.Load()
}

func (s *stubSession) Login(_ context.Context, email, password string) (domain.User, error) {
	if email == "" || password == "" {
		return domain.User{}, session.ErrMissingCredentials
	}
	if s.loginErr != nil {
		return domain.User{}, s.loginErr
	}
	s.authenticated.Store(true)
	s.nav.Redirect(testSessionConfig.DashboardRoute)
	return s.user, nil
}

func (s *stubSession) Logout(context.Context) error {
	s.authenticated.Store(false)
	s.nav.Redirect(testSessionConfig.EntryRoute)
	return nil
}

type stubDirectory struct {
	exists  bool
	users   []domain.User
	rows    []gateway.ReportRow
	err     error
	created []gateway.RegisterRequest
}

func (d *stubDirectory) ListUsers(context.Context) ([]domain.User, error) { return d.users, d.err }

func (d *stubDirectory) CheckEmail(context.Context, string) (bool, error) { return d.exists, d.err }

func (d *stubDirectory) RegisterUser(_ context.Context, req gateway.RegisterRequest) (domain.User, error) {
	d.created = append(d.created, req)
	return domain.User{ID: 9, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, Password: req.Password}, nil
}

func (d *stubDirectory) ReportSummary(context.Context) ([]gateway.ReportRow, error) {
	return d.rows, d.err
}

func (d *stubDirectory) RecalculateCompletion(context.Context) ([]gateway.ReportRow, error) {
	return d.rows, d.err
}

type consoleFixture struct {
	server    *httptest.Server
	session   *stubSession
	directory *stubDirectory
	api       *mocks.MockTaskAPI
	nav       *access.Navigator
	notices   *notify.Board
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	return newConsoleFixtureWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newConsoleFixtureWithLogger(t *testing.T, logger *slog.Logger) *consoleFixture {
	t.Helper()

	nav := access.NewNavigator("/")
	sess := &stubSession{
		user: domain.User{ID: 1, FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"},
		nav:  nav,
	}
	dir := &stubDirectory{}
	api := &mocks.MockTaskAPI{SearchBody: json.RawMessage(`[{"id":2,"plannedDescription":"b"},{"id":1,"plannedDescription":"a"}]`)}
	engine := tasks.NewEngine(api, 8, logger)
	board := notify.NewBoard(notify.NewFactory(config.NoticesConfig{ToastDelay: time.Minute, BannerDelay: time.Minute}))

	c := New(Deps{
		Session:    sess,
		Directory:  dir,
		Controller: access.NewController(sess, nav, "/", logger),
		Navigator:  nav,
		Engine:     engine,
		Tasks:      tasks.NewCoordinator(api, engine, time.Minute, logger),
		Notices:    board,
		Config:     testSessionConfig,
		Logger:     logger,
	})
	server := httptest.NewServer(c.Routes())
	t.Cleanup(server.Close)

	return &consoleFixture{server: server, session: sess, directory: dir, api: api, nav: nav, notices: board}
}

func (f *consoleFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestProtectedRoutesRedirectWhenLocked(t *testing.T) {
	f := newConsoleFixture(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/users"},
		{http.MethodPost, "/tasks/search"},
		{http.MethodDelete, "/tasks/3"},
		{http.MethodGet, "/reports/summary"},
	} {
		resp := f.do(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, tc.path)
		assert.Equal(t, "/", resp.Header.Get("Location"), tc.path)
	}
	assert.Empty(t, f.api.Queries())
	assert.Equal(t, "/", f.nav.Location())
}

func TestPublicRoutes(t *testing.T) {
	f := newConsoleFixture(t)

	resp := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeBody[EntryView](t, resp)
	assert.Equal(t, "/", view.Route)
	assert.False(t, view.Authenticated)
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newConsoleFixture(t)

		resp := f.do(t, http.MethodPost, "/login", LoginRequest{Email: "ana@example.com", Password: "secret"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		view := decodeBody[SessionView](t, resp)
		assert.Equal(t, "/dashboard", view.Redirect)
		require.NotNil(t, view.Profile)
		assert.Equal(t, "Ana Silva", view.Profile.FullName())

		resp = f.do(t, http.MethodGet, "/dashboard", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		dash := decodeBody[DashboardView](t, resp)
		assert.Equal(t, "ana@example.com", dash.Profile.Email)
		require.NotEmpty(t, dash.Notices)
		assert.Equal(t, "Welcome, Ana Silva.", dash.Notices[0].Message)
	})

	t.Run("missing credentials", func(t *testing.T) {
		f := newConsoleFixture(t)

		resp := f.do(t, http.MethodPost, "/login", LoginRequest{Email: "ana@example.com"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[ErrorResponse](t, resp)
		assert.Equal(t, notify.MsgMissingLogin, body.Error)
		assert.NotEmpty(t, body.TraceID)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		f := newConsoleFixture(t)
		f.session.loginErr = &gateway.Fault{Kind: domain.ErrAuthFault, Status: 401, Path: gateway.LoginPath}
		f.nav.Visit("/elsewhere")

		resp := f.do(t, http.MethodPost, "/login", LoginRequest{Email: "ana@example.com", Password: "bad"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, notify.MsgBadCredentials, decodeBody[ErrorResponse](t, resp).Error)
		assert.Equal(t, "/", f.nav.Location(), "login is attempted from the entry route")

		active := f.notices.Active()
		require.Len(t, active, 1)
		assert.Equal(t, notify.Warning, active[0].Severity)
	})
}

func TestRegister(t *testing.T) {
	req := gateway.RegisterRequest{FirstName: "Bea", LastName: "Lima", Email: "bea@example.com", Password: "secret1"}

	t.Run("creates account", func(t *testing.T) {
		f := newConsoleFixture(t)

		resp := f.do(t, http.MethodPost, "/register", req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		user := decodeBody[domain.User](t, resp)
		assert.Equal(t, int64(9), user.ID)
		assert.Empty(t, user.Password)
		assert.Len(t, f.directory.created, 1)
	})

	t.Run("email taken", func(t *testing.T) {
		f := newConsoleFixture(t)
		f.directory.exists = true

		resp := f.do(t, http.MethodPost, "/register", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "email is already registered", decodeBody[ErrorResponse](t, resp).Error)
		assert.Empty(t, f.directory.created)
	})
}

func TestTaskRoutes(t *testing.T) {
	f := newConsoleFixture(t)
	f.session.authenticated.Store(true)

	resp := f.do(t, http.MethodGet, "/tasks/results", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "no active search")

	resp = f.do(t, http.MethodPost, "/tasks/search", domain.FilterSpec{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeBody[SearchView](t, resp)
	assert.Equal(t, 2, view.Page.Total)
	assert.Equal(t, int64(1), view.Page.Items[0].ID)

	resp = f.do(t, http.MethodPost, "/tasks/sort/id", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeBody[tasks.Page](t, resp)
	assert.Equal(t, int64(1), page.Items[0].ID)

	resp = f.do(t, http.MethodPost, "/tasks/sort/id", nil)
	page = decodeBody[tasks.Page](t, resp)
	assert.True(t, page.Descending)
	assert.Equal(t, int64(2), page.Items[0].ID)

	resp = f.do(t, http.MethodPost, "/tasks/sort/colour", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/tasks/2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	draft := decodeBody[tasks.Draft](t, resp)
	assert.Equal(t, "b", draft.PlannedDescription)

	resp = f.do(t, http.MethodGet, "/tasks/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/tasks/results?page=x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/tasks/search", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = f.do(t, http.MethodGet, "/tasks/results", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSearchWithoutMatches(t *testing.T) {
	f := newConsoleFixture(t)
	f.session.authenticated.Store(true)
	f.api.SearchBody = json.RawMessage(`[]`)

	resp := f.do(t, http.MethodPost, "/tasks/search", domain.FilterSpec{Description: "zzz"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, decodeBody[SearchView](t, resp).Page.Total)

	active := f.notices.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.MsgNoMatches, active[0].Message)
}

func TestUpdateTask(t *testing.T) {
	f := newConsoleFixture(t)
	f.session.authenticated.Store(true)
	f.api.SearchBody = json.RawMessage(`[{"id":4,"plannedDescription":"write","dueDate":"2025-02-01","executionStatus":"PENDING","taskSituation":"OPEN"}]`)

	resp := f.do(t, http.MethodPost, "/tasks/search", domain.FilterSpec{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPut, "/tasks/4", map[string]string{"executionStatus": "DONE"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "closing needs an executed description")
	assert.Empty(t, f.api.Updated())

	resp = f.do(t, http.MethodPut, "/tasks/4", map[string]string{
		"executionStatus":     "DONE",
		"executedDescription": "written",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := f.api.Updated()
	require.Len(t, updated, 1)
	assert.Equal(t, "write", updated[0].PlannedDescription, "unedited fields come from the result set")
	assert.Equal(t, domain.StatusDone, updated[0].ExecutionStatus)
	assert.Equal(t, domain.SituationClosed, updated[0].TaskSituation)
}

func TestDeleteTask(t *testing.T) {
	f := newConsoleFixture(t)
	f.session.authenticated.Store(true)

	resp := f.do(t, http.MethodDelete, "/tasks/5", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	view := decodeBody[DeleteView](t, resp)
	assert.Equal(t, "armed", view.Outcome)
	assert.Equal(t, MsgConfirmDelete, view.Message)
	assert.Empty(t, f.api.Deleted())

	resp = f.do(t, http.MethodGet, "/dashboard", nil)
	dash := decodeBody[DashboardView](t, resp)
	require.NotNil(t, dash.PendingDelete)
	assert.Equal(t, int64(5), *dash.PendingDelete)

	resp = f.do(t, http.MethodDelete, "/tasks/5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "confirmed", decodeBody[DeleteView](t, resp).Outcome)
	assert.Equal(t, []int64{5}, f.api.Deleted())

	resp = f.do(t, http.MethodDelete, "/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReports(t *testing.T) {
	f := newConsoleFixture(t)
	f.session.authenticated.Store(true)

	resp := f.do(t, http.MethodGet, "/reports/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]gateway.ReportRow](t, resp), "no data renders as an empty list")

	f.directory.rows = []gateway.ReportRow{{"user": "Ana Silva", "completion": 50.0}}
	resp = f.do(t, http.MethodPost, "/reports/recalculate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]gateway.ReportRow](t, resp), 1)

	f.directory.err = &gateway.Fault{Kind: domain.ErrTransportFault, Status: 503}
	resp = f.do(t, http.MethodGet, "/reports/summary", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, notify.MsgUnavailable, decodeBody[ErrorResponse](t, resp).Error)
}

func TestNotices(t *testing.T) {
	f := newConsoleFixture(t)
	f.session.authenticated.Store(true)
	n := f.notices.Push(notify.Info, "hello")

	resp := f.do(t, http.MethodGet, "/notices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]notify.Notice](t, resp), 1)

	resp = f.do(t, http.MethodDelete, "/notices/"+n.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = f.do(t, http.MethodDelete, "/notices/"+n.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, f.notices.Active())
}

func TestErrorResponsesAreLoggedRedacted(t *testing.T) {
	handler := testutils.NewTestSlogHandler()
	f := newConsoleFixtureWithLogger(t, slog.New(handler))
	f.session.authenticated.Store(true)
	f.directory.err = errors.New("upstream rejected Bearer abc.def.ghi for ana@example.com")

	resp := f.do(t, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, notify.MsgUnexpected, body.Error)

	entry, ok := handler.Find("console error response")
	require.True(t, ok)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, body.TraceID, entry["trace_id"])
	assert.Equal(t, "console", entry["component"])
	assert.NotContains(t, entry["error"], "abc.def.ghi")
	assert.NotContains(t, entry["error"], "ana@example.com")
}
