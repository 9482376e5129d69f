package tasks

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// Normalize converts a search response into an id-ascending task list.
// A bare array and a page object with a "content" array are accepted;
// every other shape, including null and {}, yields an empty list.
func Normalize(raw json.RawMessage) []domain.Task {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []domain.Task{}
	}

	var list []domain.Task
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return []domain.Task{}
		}
	case '{':
		var page struct {
			Content []domain.Task `json:"content"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return []domain.Task{}
		}
		list = page.Content
	}

	if list == nil {
		return []domain.Task{}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
