package memory

import (
	"sync"

	"review_relay/internal/adapters/observability"
	"review_relay/internal/domain"
)

// Store keeps open review sessions for the lifetime of the process.
// Every method returns copies; the live sessions never leave the lock.
type Store struct {
	mu       sync.Mutex
	sessions map[domain.UserID]*domain.Session
}

func New() *Store { return &Store{sessions: make(map[domain.UserID]*domain.Session)} }

func (s *Store) Open(u domain.UserID) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := domain.NewSession(u)
	s.sessions[u] = sess
	observability.SetOpenSessions(len(s.sessions))
	return sess.Clone()
}

func (s *Store) Get(u domain.UserID) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[u]
	if !ok {
		return domain.Session{}, false
	}
	return sess.Clone(), true
}

func (s *Store) Take(u domain.UserID) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[u]
	if !ok {
		return domain.Session{}, false
	}
	delete(s.sessions, u)
	observability.SetOpenSessions(len(s.sessions))
	return sess.Clone(), true
}

func (s *Store) Update(u domain.UserID, fn func(*domain.Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[u]
	if !ok {
		return false
	}
	fn(sess)
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
