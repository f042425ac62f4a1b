package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

const (
	DefaultTTL         = 24 * time.Hour
	DefaultMaxSessions = 4096
)

// SessionStore keeps sessions in process memory. Entries idle for longer
// than the TTL expire and the least recently used entry is evicted once the
// store holds more than the configured maximum.
type SessionStore struct {
	mu sync.Mutex

	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	lru      *list.List // front=MRU
	sessions map[domain.SessionID]*list.Element
}

type sessionEntry struct {
	session  *domain.Session
	lastUsed time.Time
}

type Option func(*SessionStore)

// WithTTL sets the idle expiry. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *SessionStore) {
		if ttl < 0 {
			ttl = 0
		}
		s.ttl = ttl
	}
}

// WithMaxSessions bounds the number of sessions. Zero disables the bound.
func WithMaxSessions(n int) Option {
	return func(s *SessionStore) {
		if n < 0 {
			n = 0
		}
		s.maxSessions = n
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) {
		s.now = now
	}
}

func NewSessionStore(opts ...Option) *SessionStore {
	s := &SessionStore{
		ttl:         DefaultTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		lru:         list.New(),
		sessions:    make(map[domain.SessionID]*list.Element),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Load(_ context.Context, id domain.SessionID) (*domain.Session, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked(now)

	e, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	entry := e.Value.(*sessionEntry)
	entry.lastUsed = now
	s.lru.MoveToFront(e)

	return entry.session.Clone(), nil
}

func (s *SessionStore) Store(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked(now)

	if e, ok := s.sessions[session.ID]; ok {
		entry := e.Value.(*sessionEntry)
		entry.session = session.Clone()
		entry.lastUsed = now
		s.lru.MoveToFront(e)
		return nil
	}

	e := s.lru.PushFront(&sessionEntry{session: session.Clone(), lastUsed: now})
	s.sessions[session.ID] = e
	s.evictOverLimitLocked()
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		s.deleteElemLocked(e)
	}
	return nil
}

// Len reports how many sessions are currently held.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *SessionStore) evictExpiredLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for e := s.lru.Back(); e != nil; {
		prev := e.Prev()
		if now.Sub(e.Value.(*sessionEntry).lastUsed) <= s.ttl {
			break
		}
		s.deleteElemLocked(e)
		e = prev
	}
}

func (s *SessionStore) evictOverLimitLocked() {
	if s.maxSessions <= 0 {
		return
	}
	for s.lru.Len() > s.maxSessions {
		s.deleteElemLocked(s.lru.Back())
	}
}

func (s *SessionStore) deleteElemLocked(e *list.Element) {
	delete(s.sessions, e.Value.(*sessionEntry).session.ID)
	s.lru.Remove(e)
}
