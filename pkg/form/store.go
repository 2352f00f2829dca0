package form

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/utils"
)

type session struct {
	form       Form
	demo       bool
	expiresAt  time.Time
	submitting bool
}

// Store keeps open form sessions in memory. Every access to a session runs
// under the store lock, so a session is never observed half-initialized.
// Sessions idle for longer than the TTL are dropped.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	clock    utils.Clock
}

func NewStore(ttl time.Duration, clock utils.Clock) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		clock:    clock,
	}
}

// Add registers an initialized form and returns its session id.
func (s *Store) Add(demo bool, f Form) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	id := uuid.NewString()
	s.sessions[id] = &session{form: f, demo: demo, expiresAt: s.clock.Now().Add(s.ttl)}
	return id
}

// Do runs fn on the session's form under the store lock. A session opened in
// the other data set is reported as not found, a session being submitted
// as ErrSubmitInProgress.
func (s *Store) Do(id string, demo bool, fn func(Form) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id, demo)
	if err != nil {
		return err
	}
	return fn(sess.form)
}

// Claim runs fn like Do and, when fn succeeds, marks the session as being
// submitted. Until Unclaim or Remove every other access to it fails with
// ErrSubmitInProgress.
func (s *Store) Claim(id string, demo bool, fn func(Form) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id, demo)
	if err != nil {
		return err
	}
	if err := fn(sess.form); err != nil {
		return err
	}
	sess.submitting = true
	return nil
}

// Unclaim reopens a claimed session after its save failed.
func (s *Store) Unclaim(id string, demo bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok && sess.demo == demo {
		sess.submitting = false
		sess.expiresAt = s.clock.Now().Add(s.ttl)
	}
}

func (s *Store) lookup(id string, demo bool) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok || sess.demo != demo {
		return nil, ErrSessionNotFound
	}
	if sess.submitting {
		return nil, ErrSubmitInProgress
	}
	now := s.clock.Now()
	if now.After(sess.expiresAt) {
		sess.form.Close()
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess, nil
}

// Remove closes the form and forgets the session.
func (s *Store) Remove(id string, demo bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.demo != demo {
		return false
	}
	sess.form.Close()
	delete(s.sessions, id)
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) evictExpired() {
	now := s.clock.Now()
	for id, sess := range s.sessions {
		if !sess.submitting && now.After(sess.expiresAt) {
			sess.form.Close()
			delete(s.sessions, id)
			log.Debugf("form session %s expired", id)
		}
	}
}
