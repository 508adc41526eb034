package navigation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory builds the controller for a new session with the given id.
type Factory func(ctx context.Context, id string) *Controller

// Session is one browser session's controller plus its lock. net/http runs
// handlers concurrently; the lock restores the one-event-at-a-time model the
// controller is written for.
type Session struct {
	ID string

	mu       sync.Mutex
	c        *Controller
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's controller.
func (s *Session) Do(fn func(c *Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return fn(s.c)
}

// Sessions keeps one controller per session id.
type Sessions struct {
	factory Factory
	ttl     time.Duration

	mu    sync.Mutex
	items map[string]*Session
}

// NewSessions returns a manager that drops sessions idle for longer than ttl
// when Sweep runs. ttl <= 0 disables expiry.
func NewSessions(factory Factory, ttl time.Duration) *Sessions {
	return &Sessions{
		factory: factory,
		ttl:     ttl,
		items:   make(map[string]*Session),
	}
}

// Get returns the session for id, creating a fresh one (with a new id) when
// id is empty or unknown.
func (m *Sessions) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.items[id]; ok && id != "" {
		return s
	}
	newID := uuid.NewString()
	s := &Session{
		ID:       newID,
		c:        m.factory(ctx, newID),
		lastSeen: time.Now(),
	}
	m.items[s.ID] = s
	return s
}

// Len returns the number of live sessions.
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Sweep drops sessions idle since before now-ttl and returns how many went.
func (m *Sessions) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.items {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen) > m.ttl
		s.mu.Unlock()
		if idle {
			delete(m.items, id)
			n++
		}
	}
	return n
}

// Run sweeps on every tick until ctx is done.
func (m *Sessions) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.Sweep(now)
		}
	}
}
