package harnesssim

import (
	"sync"

	"voiceqa/telemetry/internal/types"
)

// Store is the simulator's in-memory session state: one append-only
// barge-in log per session. Entries are never mutated after append, so
// readers only need a copy of the slice header contents.
type Store struct {
	mu   sync.RWMutex
	logs map[string][]types.BargeInEvent
}

func NewStore() *Store {
	return &Store{logs: make(map[string][]types.BargeInEvent)}
}

// CreateSession registers a session with an empty log. Creating an
// existing session is a no-op; the log survives.
func (s *Store) CreateSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[sessionID]; !ok {
		s.logs[sessionID] = []types.BargeInEvent{}
	}
}

// Append adds one barge-in event, assigning its sequence number, and
// returns the stored entry.
func (s *Store) Append(sessionID string, ev types.BargeInEvent) types.BargeInEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.Seq = len(s.logs[sessionID])
	s.logs[sessionID] = append(s.logs[sessionID], ev)
	return ev
}

// Snapshot returns a copy of the session state, or nil for an unknown
// session ("not ready" to a polling client).
func (s *Store) Snapshot(sessionID string) *types.HarnessSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.logs[sessionID]
	if !ok {
		return nil
	}
	// return a copy to avoid external mutation
	out := make([]types.BargeInEvent, len(src))
	copy(out, src)
	return &types.HarnessSnapshot{
		Metrics:    types.HarnessMetrics{BargeInCount: len(out)},
		BargeInLog: out,
	}
}
