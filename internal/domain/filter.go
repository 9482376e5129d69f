package domain

import "strings"

// FilterSpec is the set of optional constraints used to query tasks.
// An empty field means "no constraint", never "match empty".
type FilterSpec struct {
	Description   string `json:"description,omitempty"`
	Status        string `json:"status,omitempty"`
	Situation     string `json:"situation,omitempty"`
	ResponsibleID string `json:"responsibleId,omitempty"`
	CreateDate    string `json:"createDate,omitempty"`
	DueDate       string `json:"dueDate,omitempty"`
}

// Fields returns the filter as ordered (name, value) pairs using the remote
// service's query parameter names.
func (f FilterSpec) Fields() [][2]string {
	return [][2]string{
		{"description", f.Description},
		{"status", f.Status},
		{"situation", f.Situation},
		{"responsibleId", f.ResponsibleID},
		{"createDate", f.CreateDate},
		{"dueDate", f.DueDate},
	}
}

// IsEmpty reports whether every field is blank.
func (f FilterSpec) IsEmpty() bool {
	for _, kv := range f.Fields() {
		if strings.TrimSpace(kv[1]) != "" {
			return false
		}
	}
	return true
}
