package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// Query engine errors.
var (
	// ErrNoMatches is returned with an empty result set when a search
	// succeeds but matches nothing.
	ErrNoMatches = errors.New("no tasks match the search")

	// ErrStaleResult is returned when a response arrives after a newer
	// search has been accepted; the response is discarded.
	ErrStaleResult = errors.New("search result superseded by a newer search")

	// ErrNoActiveSearch is returned by Refresh and Results when no search
	// has been run since the last Clear.
	ErrNoActiveSearch = errors.New("no active search")

	// ErrUnknownSortKey is wrapped by the validation error Sort returns for
	// an unsupported key.
	ErrUnknownSortKey = errors.New("unknown sort key")
)

// SearchAPI runs a task query against the service and returns the raw body.
type SearchAPI interface {
	SearchTasks(ctx context.Context, query url.Values) (json.RawMessage, error)
}

// Engine owns the active FilterSpec and its result set.
type Engine struct {
	api      SearchAPI
	pageSize int
	logger   *slog.Logger

	mu       sync.Mutex
	seq      uint64
	accepted uint64
	spec     *domain.FilterSpec
	results  *ResultSet
}

// NewEngine creates an Engine serving pages of pageSize tasks.
func NewEngine(api SearchAPI, pageSize int, logger *slog.Logger) *Engine {
	return &Engine{
		api:      api,
		pageSize: pageSize,
		logger:   logger.With("component", "task_query_engine"),
	}
}

// Search runs spec and replaces the result set with the first page of the
// normalized response. An empty result returns ErrNoMatches along with the
// empty page.
func (e *Engine) Search(ctx context.Context, spec domain.FilterSpec) (Page, error) {
	e.mu.Lock()
	seq := e.next()
	e.mu.Unlock()

	return e.run(ctx, seq, spec, false)
}

// Refresh re-runs the active spec, keeping the current sort and page
// (clamped to the new size).
func (e *Engine) Refresh(ctx context.Context) (Page, error) {
	e.mu.Lock()
	if e.spec == nil {
		e.mu.Unlock()
		return Page{}, ErrNoActiveSearch
	}
	spec := *e.spec
	seq := e.next()
	e.mu.Unlock()

	return e.run(ctx, seq, spec, true)
}

// next numbers a new request. Callers hold mu.
func (e *Engine) next() uint64 {
	e.seq++
	return e.seq
}

// superseded reports whether a newer request was accepted, or the state
// cleared, after seq was issued. Callers hold mu.
func (e *Engine) superseded(ctx context.Context, seq uint64) bool {
	if seq > e.accepted {
		return false
	}
	e.logger.DebugContext(ctx, "discarding stale search result", "seq", seq, "accepted", e.accepted)
	return true
}

func (e *Engine) run(ctx context.Context, seq uint64, spec domain.FilterSpec, keepView bool) (Page, error) {
	query := BuildQuery(spec)
	e.logger.DebugContext(ctx, "searching tasks", "seq", seq, "filters", len(query))

	raw, err := e.api.SearchTasks(ctx, query)
	if err != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.superseded(ctx, seq) {
			return Page{}, ErrStaleResult
		}
		return Page{}, err
	}
	tasks := Normalize(raw)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.superseded(ctx, seq) {
		return Page{}, ErrStaleResult
	}
	e.accepted = seq

	next := NewResultSet(tasks, e.pageSize)
	page := 1
	if keepView && e.results != nil {
		if e.results.key != "" {
			_ = next.sortBy(e.results.key, e.results.desc)
		}
		page = e.results.page
	}
	e.spec = &spec
	e.results = next

	current := next.Page(page)
	if next.Len() == 0 {
		return current, ErrNoMatches
	}
	return current, nil
}

// Page moves to page n of the active result set.
func (e *Engine) Page(n int) (Page, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.results == nil {
		return Page{}, ErrNoActiveSearch
	}
	return e.results.Page(n), nil
}

// Sort sorts the active result set by key.
func (e *Engine) Sort(key string) (Page, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.results == nil {
		return Page{}, ErrNoActiveSearch
	}
	if err := e.results.Sort(key); err != nil {
		return Page{}, err
	}
	return e.results.Current(), nil
}

// Current returns the current page of the active result set.
func (e *Engine) Current() (Page, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.results == nil {
		return Page{}, ErrNoActiveSearch
	}
	return e.results.Current(), nil
}

// Find returns a task of the active result set by id.
func (e *Engine) Find(id int64) (domain.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.results == nil {
		return domain.Task{}, false
	}
	return e.results.Find(id)
}

// Active reports whether a search is active.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spec != nil
}

// Spec returns the active FilterSpec.
func (e *Engine) Spec() (domain.FilterSpec, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.spec == nil {
		return domain.FilterSpec{}, false
	}
	return *e.spec, true
}

// Clear discards the spec and results. In-flight searches become stale.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spec = nil
	e.results = nil
	e.accepted = e.seq
}
