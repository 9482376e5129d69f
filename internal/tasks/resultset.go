package tasks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// Sort keys accepted by ResultSet.Sort.
const (
	SortByID                  = "id"
	SortByPlannedDescription  = "plannedDescription"
	SortByExecutedDescription = "executedDescription"
	SortByCreationDate        = "creationDate"
	SortByDueDate             = "dueDate"
	SortByExecutionStatus     = "executionStatus"
	SortByTaskSituation       = "taskSituation"
	SortByResponsibleName     = "responsibleName"
)

// sortKey extracts the comparable value of a field.
type sortKey struct {
	numeric func(domain.Task) int64
	text    func(domain.Task) string
}

var sortKeys = map[string]sortKey{
	SortByID:                  {numeric: func(t domain.Task) int64 { return t.ID }},
	SortByPlannedDescription:  {text: func(t domain.Task) string { return t.PlannedDescription }},
	SortByExecutedDescription: {text: func(t domain.Task) string { return t.ExecutedDescription }},
	SortByCreationDate:        {text: func(t domain.Task) string { return t.CreationDate }},
	SortByDueDate:             {text: func(t domain.Task) string { return t.DueDate }},
	SortByExecutionStatus:     {text: func(t domain.Task) string { return string(t.ExecutionStatus) }},
	SortByTaskSituation:       {text: func(t domain.Task) string { return string(t.TaskSituation) }},
	SortByResponsibleName:     {text: domain.Task.ResponsibleDisplayName},
}

// SortKeys lists the accepted sort keys.
func SortKeys() []string {
	keys := make([]string, 0, len(sortKeys))
	for k := range sortKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Page is one page of a ResultSet.
type Page struct {
	Number     int           `json:"page"`
	Size       int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	Total      int           `json:"total"`
	HasPrev    bool          `json:"hasPrev"`
	HasNext    bool          `json:"hasNext"`
	SortKey    string        `json:"sortKey,omitempty"`
	Descending bool          `json:"descending,omitempty"`
	Items      []domain.Task `json:"items"`
}

// ResultSet is an ordered task list with local sort and pagination.
// It is not safe for concurrent use; Engine serializes access.
type ResultSet struct {
	base     []domain.Task
	view     []domain.Task
	pageSize int
	page     int
	key      string
	desc     bool
}

// NewResultSet wraps tasks, which must already be normalized.
func NewResultSet(tasks []domain.Task, pageSize int) *ResultSet {
	if pageSize <= 0 {
		pageSize = 8
	}
	view := make([]domain.Task, len(tasks))
	copy(view, tasks)
	return &ResultSet{base: tasks, view: view, pageSize: pageSize, page: 1}
}

// Len returns the number of tasks.
func (r *ResultSet) Len() int {
	return len(r.view)
}

// TotalPages returns ceil(Len / page size).
func (r *ResultSet) TotalPages() int {
	return (len(r.view) + r.pageSize - 1) / r.pageSize
}

// Sort orders the set by key. Sorting by the current key again flips the
// direction; a new key starts ascending. The current page is kept.
func (r *ResultSet) Sort(key string) error {
	desc := false
	if key == r.key {
		desc = !r.desc
	}
	return r.sortBy(key, desc)
}

func (r *ResultSet) sortBy(key string, desc bool) error {
	k, ok := sortKeys[key]
	if !ok {
		return domain.NewValidationError("sortKey", fmt.Errorf("%w: %q", ErrUnknownSortKey, key))
	}

	view := make([]domain.Task, len(r.base))
	copy(view, r.base)
	sort.SliceStable(view, func(i, j int) bool {
		a, b := view[i], view[j]
		if desc {
			a, b = b, a
		}
		return less(k, a, b)
	})

	r.key = key
	r.desc = desc
	r.view = view
	return nil
}

func less(k sortKey, a, b domain.Task) bool {
	if k.numeric != nil {
		return k.numeric(a) < k.numeric(b)
	}
	return foldText(k.text(a)) < foldText(k.text(b))
}

func foldText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Page moves to page n, clamped to the valid range, and returns it.
func (r *ResultSet) Page(n int) Page {
	if total := r.TotalPages(); n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	r.page = n
	return r.Current()
}

// Current returns the current page.
func (r *ResultSet) Current() Page {
	total := r.TotalPages()
	start := (r.page - 1) * r.pageSize
	end := min(start+r.pageSize, len(r.view))
	if start > end {
		start = end
	}
	items := make([]domain.Task, end-start)
	copy(items, r.view[start:end])

	return Page{
		Number:     r.page,
		Size:       r.pageSize,
		TotalPages: total,
		Total:      len(r.view),
		HasPrev:    r.page > 1,
		HasNext:    r.page < total,
		SortKey:    r.key,
		Descending: r.desc,
		Items:      items,
	}
}

// Find returns the task with id.
func (r *ResultSet) Find(id int64) (domain.Task, bool) {
	for _, t := range r.base {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}
