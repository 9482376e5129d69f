package console

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskdesk/internal/access"
	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/gateway"
	"github.com/phrazzld/taskdesk/internal/notify"
	"github.com/phrazzld/taskdesk/internal/tasks"
)

// Session is the part of the session guard the console drives.
type Session interface {
	IsAuthenticated() bool
	Profile() (domain.User, bool)
	Login(ctx context.Context, email, password string) (domain.User, error)
	Logout(ctx context.Context) error
}

// Directory holds the user and report calls of the remote service.
type Directory interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	RegisterUser(ctx context.Context, req gateway.RegisterRequest) (domain.User, error)
	ReportSummary(ctx context.Context) ([]gateway.ReportRow, error)
	RecalculateCompletion(ctx context.Context) ([]gateway.ReportRow, error)
}

// Deps are the collaborators of a Console.
type Deps struct {
	Session    Session
	Directory  Directory
	Controller *access.Controller
	Navigator  *access.Navigator
	Engine     *tasks.Engine
	Tasks      *tasks.Coordinator
	Notices    *notify.Board
	Config     config.SessionConfig
	Logger     *slog.Logger
}

// Console serves the local JSON views.
type Console struct {
	session    Session
	directory  Directory
	controller *access.Controller
	nav        *access.Navigator
	engine     *tasks.Engine
	tasks      *tasks.Coordinator
	notices    *notify.Board
	cfg        config.SessionConfig
	logger     *slog.Logger
}

// New creates a Console.
func New(d Deps) *Console {
	return &Console{
		session:    d.Session,
		directory:  d.Directory,
		controller: d.Controller,
		nav:        d.Navigator,
		engine:     d.Engine,
		tasks:      d.Tasks,
		notices:    d.Notices,
		cfg:        d.Config,
		logger:     d.Logger.With("component", "console"),
	}
}

// Routes returns the console router.
func (c *Console) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(traceLogger(c.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", c.health)

	r.With(c.controller.Track).Get(c.cfg.EntryRoute, c.entry)
	r.Post("/login", c.login)
	r.Post("/logout", c.logout)
	r.Post("/register", c.register)

	r.Group(func(r chi.Router) {
		r.Use(c.controller.Middleware)

		r.Get(c.cfg.DashboardRoute, c.dashboard)
		r.Get("/users", c.listUsers)

		r.Post("/tasks", c.createTask)
		r.Post("/tasks/search", c.search)
		r.Delete("/tasks/search", c.clearSearch)
		r.Get("/tasks/results", c.results)
		r.Post("/tasks/sort/{key}", c.sort)
		r.Get("/tasks/{id}", c.draft)
		r.Put("/tasks/{id}", c.updateTask)
		r.Delete("/tasks/{id}", c.deleteTask)

		r.Get("/reports/summary", c.reportSummary)
		r.Post("/reports/recalculate", c.recalculate)

		r.Get("/notices", c.listNotices)
		r.Delete("/notices/{id}", c.dismissNotice)
	})

	return r
}

// fail pushes the notice for err and writes the matching error response.
// Stale search results produce no notice.
func (c *Console) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := http.StatusText(status)
	if n, ok := c.notices.PushError(err); ok {
		message = n.Message
	}
	respondErrorAndLog(w, r, status, message, err)
}

func (c *Console) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		c.logger.Error("failed to write health check response", "error", err)
	}
}
