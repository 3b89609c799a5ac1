package core

import (
	"sync"
	"time"
)

type sessionEntry struct {
	data     *Dataset
	lastSeen time.Time
}

// SessionStore holds one Dataset per browser session in memory.
// Entries idle for longer than the TTL are dropped, and when the store is
// full the least recently used entry is evicted to make room.
type SessionStore struct {
	ttl time.Duration
	max int
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionStore creates a store with the given idle TTL and capacity.
func NewSessionStore(ttl time.Duration, maxSessions int) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = 1
	}
	return &SessionStore{
		ttl:      ttl,
		max:      maxSessions,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Put stores d for session id, replacing any previous dataset.
// It returns the ID of an evicted session, or "".
func (s *SessionStore) Put(id string, d *Dataset) (evicted string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, ok := s.sessions[id]; !ok && len(s.sessions) >= s.max {
		evicted = s.oldestLocked()
		delete(s.sessions, evicted)
	}
	s.sessions[id] = &sessionEntry{data: d, lastSeen: now}
	return evicted
}

// Get returns the dataset for id and refreshes its idle timer.
// Expired sessions are removed and reported as missing.
func (s *SessionStore) Get(id string) (*Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e.data, true
}

// Delete forgets session id. It reports whether a dataset was held.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Sweep removes every expired session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of held sessions, expired ones included until swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) oldestLocked() string {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldestAt) {
			oldestID, oldestAt = id, e.lastSeen
		}
	}
	return oldestID
}
