package tasks

import (
	"net/url"
	"strings"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// BuildQuery encodes the non-blank fields of spec as query parameters.
// Values are trimmed; a blank field adds nothing.
func BuildQuery(spec domain.FilterSpec) url.Values {
	q := url.Values{}
	for _, kv := range spec.Fields() {
		if v := strings.TrimSpace(kv[1]); v != "" {
			q.Set(kv[0], v)
		}
	}
	return q
}
