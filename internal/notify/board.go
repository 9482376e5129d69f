package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Board holds the notices currently on screen. Expired notices are dropped
// lazily on read.
type Board struct {
	factory *Factory

	mu      sync.Mutex
	notices []Notice
}

// NewBoard creates an empty Board.
func NewBoard(factory *Factory) *Board {
	return &Board{factory: factory}
}

// Push shows a new notice and returns it.
func (b *Board) Push(severity Severity, message string) Notice {
	n := b.factory.New(severity, message)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	return n
}

// PushError shows the notice for err, if any.
func (b *Board) PushError(err error) (Notice, bool) {
	n, ok := b.factory.FromError(err)
	if !ok {
		return Notice{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	return n, true
}

// Active returns the notices still on screen, oldest first.
func (b *Board) Active() []Notice {
	now := b.factory.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.notices[:0]
	for _, n := range b.notices {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	b.notices = kept

	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes a notice before it expires.
func (b *Board) Dismiss(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, n := range b.notices {
		if n.ID == id {
			b.notices = append(b.notices[:i], b.notices[i+1:]...)
			return true
		}
	}
	return false
}
