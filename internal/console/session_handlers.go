package console

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/gateway"
	"github.com/phrazzld/taskdesk/internal/notify"
)

var errEmailTaken = errors.New("is already registered")

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EntryView is the entry route.
type EntryView struct {
	Route         string          `json:"route"`
	Authenticated bool            `json:"authenticated"`
	Notices       []notify.Notice `json:"notices"`
}

// SessionView is returned by login and logout.
type SessionView struct {
	Profile  *domain.User `json:"profile,omitempty"`
	Redirect string       `json:"redirect"`
}

func (c *Console) entry(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, EntryView{
		Route:         c.cfg.EntryRoute,
		Authenticated: c.session.IsAuthenticated(),
		Notices:       c.notices.Active(),
	})
}

func (c *Console) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	// Credentials are always submitted from the entry route.
	c.nav.Visit(c.cfg.EntryRoute)

	profile, err := c.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.notices.Push(notify.Success, fmt.Sprintf("Welcome, %s.", profile.FullName()))
	respondJSON(w, r, http.StatusOK, SessionView{Profile: &profile, Redirect: c.nav.Location()})
}

func (c *Console) logout(w http.ResponseWriter, r *http.Request) {
	c.engine.Clear()
	if err := c.session.Logout(r.Context()); err != nil {
		c.fail(w, r, err)
		return
	}
	c.notices.Push(notify.Info, "You have been signed out.")
	respondJSON(w, r, http.StatusOK, SessionView{Redirect: c.nav.Location()})
}

func (c *Console) register(w http.ResponseWriter, r *http.Request) {
	var req gateway.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	exists, err := c.directory.CheckEmail(r.Context(), req.Email)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if exists {
		c.fail(w, r, domain.NewValidationError("email", errEmailTaken))
		return
	}

	user, err := c.directory.RegisterUser(r.Context(), req)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.notices.Push(notify.Success, "Account created. You can sign in now.")
	respondJSON(w, r, http.StatusCreated, user.Profile())
}
