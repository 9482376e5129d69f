package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/credstore"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/redact"
)

// ErrMissingCredentials is returned by Login when email or password is blank.
var ErrMissingCredentials = errors.New("email and password are required")

// Authenticator exchanges credentials for a token and profile.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
}

// Redirector moves the user to another route.
type Redirector interface {
	Redirect(to string)
}

// Guard is the single authority on whether the user is authenticated.
type Guard struct {
	store  credstore.Store
	auth   Authenticator
	nav    Redirector
	cfg    config.SessionConfig
	logger *slog.Logger
	now    func() time.Time

	mu            sync.Mutex
	authenticated bool
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// NewGuard creates a Guard over store. The initial state reflects whatever
// material the store already holds.
func NewGuard(
	store credstore.Store,
	auth Authenticator,
	nav Redirector,
	cfg config.SessionConfig,
	logger *slog.Logger,
	opts ...Option,
) *Guard {
	g := &Guard{
		store:  store,
		auth:   auth,
		nav:    nav,
		cfg:    cfg,
		logger: logger.With("component", "session_guard"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.authenticated = g.IsAuthenticated()
	return g
}

// IsAuthenticated reports whether a non-sentinel token is stored and its exp
// claim lies in the future. It has no side effects.
func (g *Guard) IsAuthenticated() bool {
	token, ok := g.store.Get(credstore.KeyToken)
	if !ok || IsSentinel(token) {
		return false
	}
	return !IsExpired(token, g.now())
}

// Token returns the stored bearer token, or "" when none is usable.
// The gateway attaches it to outbound requests.
func (g *Guard) Token() string {
	token, ok := g.store.Get(credstore.KeyToken)
	if !ok || IsSentinel(token) {
		return ""
	}
	return token
}

// Profile returns the stored user profile while the session is valid.
func (g *Guard) Profile() (domain.User, bool) {
	if !g.IsAuthenticated() {
		return domain.User{}, false
	}
	raw, ok := g.store.Get(credstore.KeyUser)
	if !ok {
		return domain.User{}, false
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		g.logger.Warn("stored profile is not valid JSON", "error", err)
		return domain.User{}, false
	}
	return user, true
}

// Check re-evaluates the session. When the session is no longer valid and
// session material is still present, or the guard last saw a valid session,
// it tears down. It returns the current authentication state.
func (g *Guard) Check(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.IsAuthenticated() {
		g.authenticated = true
		return true
	}
	g.teardownLocked(ctx, "expired")
	return false
}

// Teardown removes all session material and redirects to the entry route.
// It reports whether anything was torn down; repeated calls are no-ops.
func (g *Guard) Teardown(ctx context.Context, reason string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.teardownLocked(ctx, reason)
}

func (g *Guard) teardownLocked(ctx context.Context, reason string) bool {
	_, hasToken := g.store.Get(credstore.KeyToken)
	_, hasUser := g.store.Get(credstore.KeyUser)
	if !g.authenticated && !hasToken && !hasUser {
		return false
	}

	if err := g.clearLocked(); err != nil {
		g.logger.ErrorContext(ctx, "failed to clear session material", "error", err)
	}
	g.authenticated = false
	g.logger.InfoContext(ctx, "session torn down", "reason", reason)
	g.nav.Redirect(g.cfg.EntryRoute)
	return true
}

// Login authenticates against the service, replaces any prior session
// material and redirects to the dashboard.
func (g *Guard) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, ErrMissingCredentials
	}

	result, err := g.auth.Login(ctx, email, password)
	if err != nil {
		g.logger.WarnContext(ctx, "login failed", "error", redact.Error(err))
		return domain.User{}, err
	}
	if IsSentinel(result.Token) || IsExpired(result.Token, g.now()) {
		return domain.User{}, fmt.Errorf("login returned an unusable token: %w", ErrInvalidToken)
	}

	profile := result.User.Profile()
	if profile.Email == "" {
		profile.Email = email
	}
	encoded, err := json.Marshal(profile)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to encode profile: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.clearLocked(); err != nil {
		return domain.User{}, fmt.Errorf("failed to clear previous session: %w", err)
	}
	if err := g.store.Set(credstore.KeyToken, result.Token); err != nil {
		return domain.User{}, fmt.Errorf("failed to store token: %w", err)
	}
	if err := g.store.Set(credstore.KeyUser, string(encoded)); err != nil {
		return domain.User{}, fmt.Errorf("failed to store profile: %w", err)
	}
	g.authenticated = true

	g.logger.InfoContext(ctx, "login succeeded", "user", profile.FullName())
	g.nav.Redirect(g.cfg.DashboardRoute)
	return profile, nil
}

// Logout clears all session material and redirects to the entry route.
func (g *Guard) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.clearLocked()
	g.authenticated = false
	g.nav.Redirect(g.cfg.EntryRoute)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	g.logger.InfoContext(ctx, "logged out")
	return nil
}

func (g *Guard) clearLocked() error {
	return errors.Join(
		g.store.Remove(credstore.KeyToken),
		g.store.Remove(credstore.KeyUser),
	)
}
