// Package notify turns outcomes and faults into user-facing notices.
//
// Every fault maps to exactly one notice. Success, info and warning notices
// are transient toasts; danger notices are banners pinned above the view.
// Both auto-dismiss after their configured delay.
package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/config"
)

// Severity of a notice.
type Severity string

// Severities.
const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Danger  Severity = "danger"
)

// Presentation of a notice.
type Presentation string

// Presentations.
const (
	Toast  Presentation = "toast"
	Banner Presentation = "banner"
)

// Notice is one message shown to the user.
type Notice struct {
	ID           uuid.UUID     `json:"id"`
	Severity     Severity      `json:"severity"`
	Message      string        `json:"message"`
	Presentation Presentation  `json:"presentation"`
	ShownAt      time.Time     `json:"shownAt"`
	DismissAfter time.Duration `json:"dismissAfter"`
}

// Expired reports whether the notice should no longer be shown at now.
func (n Notice) Expired(now time.Time) bool {
	return n.DismissAfter > 0 && !now.Before(n.ShownAt.Add(n.DismissAfter))
}

// Factory stamps notices with presentation and delay.
type Factory struct {
	cfg config.NoticesConfig
	now func() time.Time
}

// NewFactory creates a Factory using cfg delays.
func NewFactory(cfg config.NoticesConfig) *Factory {
	return &Factory{cfg: cfg, now: time.Now}
}

// New creates a notice. Danger becomes a banner; everything else a toast.
func (f *Factory) New(severity Severity, message string) Notice {
	n := Notice{
		ID:           uuid.New(),
		Severity:     severity,
		Message:      message,
		Presentation: Toast,
		ShownAt:      f.now(),
		DismissAfter: f.cfg.ToastDelay,
	}
	if severity == Danger {
		n.Presentation = Banner
		n.DismissAfter = f.cfg.BannerDelay
	}
	return n
}
