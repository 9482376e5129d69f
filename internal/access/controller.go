package access

import (
	"log/slog"
	"net/http"
)

// State is the outcome of an access attempt.
type State int

// Access states.
const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// Authority answers whether the current user is authenticated.
type Authority interface {
	IsAuthenticated() bool
}

// Decision is the result of one access attempt. Target is the requested
// path when unlocked and the entry route when locked.
type Decision struct {
	State  State
	Target string
}

// Controller gates protected routes.
type Controller struct {
	auth       Authority
	nav        *Navigator
	entryRoute string
	logger     *slog.Logger
}

// NewController creates a Controller redirecting to entryRoute.
func NewController(auth Authority, nav *Navigator, entryRoute string, logger *slog.Logger) *Controller {
	return &Controller{
		auth:       auth,
		nav:        nav,
		entryRoute: entryRoute,
		logger:     logger.With("component", "access_controller"),
	}
}

// Access evaluates an attempt to reach path and moves the navigator.
func (c *Controller) Access(path string) Decision {
	if c.auth.IsAuthenticated() {
		c.nav.Visit(path)
		return Decision{State: Unlocked, Target: path}
	}
	c.nav.Redirect(c.entryRoute)
	return Decision{State: Locked, Target: c.entryRoute}
}

// Middleware renders the protected handler when unlocked and redirects to
// the entry route otherwise.
func (c *Controller) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := c.Access(r.URL.Path)
		if decision.State == Locked {
			c.logger.DebugContext(r.Context(), "access locked",
				"path", r.URL.Path,
				"redirect", decision.Target)
			http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Track records a visit to a public route without gating it.
func (c *Controller) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			c.nav.Visit(r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}
