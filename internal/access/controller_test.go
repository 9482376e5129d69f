package access

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAuthority struct {
	ok atomic.Bool
}

func (f *fakeAuthority) IsAuthenticated() bool { return f.ok.Load() }

func newTestController(auth Authority) (*Controller, *Navigator) {
	nav := NewNavigator("/")
	return NewController(auth, nav, "/", slog.New(slog.NewTextHandler(io.Discard, nil))), nav
}

func TestAccess(t *testing.T) {
	auth := &fakeAuthority{}
	ctrl, nav := newTestController(auth)

	d := ctrl.Access("/tasks")
	assert.Equal(t, Locked, d.State)
	assert.Equal(t, "/", d.Target)
	assert.Equal(t, "/", nav.Location())

	auth.ok.Store(true)
	d = ctrl.Access("/tasks")
	assert.Equal(t, Unlocked, d.State)
	assert.Equal(t, "/tasks", d.Target)
	assert.Equal(t, "/tasks", nav.Location())

	// Each attempt is evaluated afresh.
	auth.ok.Store(false)
	d = ctrl.Access("/dashboard")
	assert.Equal(t, Locked, d.State)
	assert.Equal(t, "/", nav.Location())
}

func TestMiddleware(t *testing.T) {
	auth := &fakeAuthority{}
	ctrl, nav := newTestController(auth)

	var served int
	handler := ctrl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Zero(t, served)

	auth.ok.Store(true)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, served)
	assert.Equal(t, "/dashboard", nav.Location())
}

func TestTrack(t *testing.T) {
	ctrl, nav := newTestController(&fakeAuthority{})
	nav.Visit("/dashboard")

	handler := ctrl.Track(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, "/dashboard", nav.Location(), "actions do not move the navigator")

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/register", nil))
	assert.Equal(t, "/register", nav.Location())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "locked", Locked.String())
	assert.Equal(t, "unlocked", Unlocked.String())
}
