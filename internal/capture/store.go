package capture

import (
	"sync"
	"time"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/suggest"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/apperr"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/logger"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Store keeps live capture sessions in memory, keyed by id, and sweeps out
// sessions that have gone idle past their TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	search suggest.Searcher
	opts   suggest.Options
	ttl    time.Duration
	clock  clockwork.Clock
	log    *logger.Logger

	done chan struct{}
	once sync.Once
}

// NewStore creates a session store and starts the idle sweeper.
func NewStore(search suggest.Searcher, opts suggest.Options, ttl time.Duration, clock clockwork.Clock, log *logger.Logger) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Store{
		sessions: make(map[uuid.UUID]*Session),
		search:   search,
		opts:     opts,
		ttl:      ttl,
		clock:    clock,
		log:      log,
		done:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Create starts a new session.
func (s *Store) Create() *Session {
	session := NewSession(s.search, s.opts, s.clock)

	s.mu.Lock()
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()

	s.log.Debug("capture session created", "session_id", session.ID.String(), "active", count)
	return session
}

// Get returns the live session for id. Expired sessions are torn down on
// access and reported as gone, distinct from ids that never existed.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok && session.Expired(s.ttl) {
		delete(s.sessions, id)
		s.mu.Unlock()
		session.Close()
		return nil, apperr.Gone("capture session expired")
	}
	s.mu.Unlock()

	if !ok {
		return nil, apperr.NotFound("capture session not found")
	}
	return session, nil
}

// Delete tears down a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		session.Close()
	}
}

// Stop halts the sweeper and closes every remaining session.
func (s *Store) Stop() {
	s.once.Do(func() { close(s.done) })

	s.mu.Lock()
	remaining := make([]*Session, 0, len(s.sessions))
	for id, session := range s.sessions {
		remaining = append(remaining, session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, session := range remaining {
		session.Close()
	}
}

func (s *Store) sweep() {
	ticker := s.clock.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.Chan():
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	s.mu.Lock()
	expired := make([]*Session, 0)
	for id, session := range s.sessions {
		if session.Expired(s.ttl) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		s.log.Debug("expired capture sessions evicted", "count", len(expired))
	}
}
