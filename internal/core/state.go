package core

import (
	"sync"
	"time"
)

// State owns the registry and the channel store. Every transition takes the
// write lock for its whole duration, including event fan-out; diagnostics
// take the read lock.
type State struct {
	mu       sync.RWMutex
	registry *Registry
	channels *ChannelStore
	started  time.Time
	now      func() time.Time
}

// NewState creates isolated state for the given channels.
func NewState(defs []ChannelDef) *State {
	return &State{
		registry: NewRegistry(),
		channels: NewChannelStore(defs),
		started:  time.Now(),
		now:      time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *State) WithClock(now func() time.Time) *State {
	s.now = now
	s.started = now()
	return s
}

func (s *State) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *State) view(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}
