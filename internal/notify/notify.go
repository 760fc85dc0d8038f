// Package notify holds the single advisory message shown to the client.
// A new notice overwrites the pending one; notices expire after a TTL.
package notify

import (
	"context"
	"sync"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 4 * time.Second

type Notice struct {
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Slot is a single-slot, auto-expiring notice holder. Implementations never
// block the caller on failure.
type Slot interface {
	Set(ctx context.Context, n Notice)
	Current(ctx context.Context) (Notice, bool)
}

// MemorySlot keeps the notice in process memory.
type MemorySlot struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	notice *Notice
}

func NewMemorySlot(ttl time.Duration) *MemorySlot {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemorySlot{ttl: ttl, now: time.Now}
}

func (s *MemorySlot) Set(_ context.Context, n Notice) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	s.mu.Lock()
	s.notice = &n
	s.mu.Unlock()
}

func (s *MemorySlot) Current(_ context.Context) (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return Notice{}, false
	}
	if s.now().Sub(s.notice.CreatedAt) >= s.ttl {
		s.notice = nil
		return Notice{}, false
	}
	return *s.notice, true
}

var _ Slot = (*MemorySlot)(nil)
