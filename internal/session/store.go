package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/contract"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps sessions by id and expires idle ones.
type Store struct {
	backend backend.Contract
	version contract.SchemaVersion
	ttl     time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*entry

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewStore creates an empty store whose sessions talk to b.
func NewStore(b backend.Contract, version contract.SchemaVersion, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		backend:  b,
		version:  version,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session with a random id.
func (s *Store) Create() *Session {
	sess := New(uuid.NewString(), s.backend, s.version)

	s.mu.Lock()
	s.sessions[sess.ID()] = &entry{session: sess, lastSeen: s.now()}
	s.mu.Unlock()

	return sess
}

// Get returns a live session and marks it as used.
func (s *Store) Get(id string) (*Session, bool) {
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
	return e.session, true
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanup sweeps expired sessions every interval until Stop is called.
func (s *Store) StartCleanup(interval time.Duration) {
	if interval <= 0 || s.cleanupTicker != nil {
		return
	}
	s.cleanupTicker = time.NewTicker(interval)
	s.cleanupStop = make(chan struct{})
	go s.cleanup(s.cleanupTicker.C, s.cleanupStop)
}

func (s *Store) cleanup(tick <-chan time.Time, stop <-chan struct{}) {
	for {
		select {
		case <-tick:
			s.Sweep()
		case <-stop:
			return
		}
	}
}

// Stop stops the cleanup goroutine.
func (s *Store) Stop() {
	if s.cleanupTicker != nil {
		s.cleanupTicker.Stop()
	}
	if s.cleanupStop != nil {
		close(s.cleanupStop)
		s.cleanupStop = nil
	}
}
