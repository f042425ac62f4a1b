// Package badger stores sessions and saved guidelines in an embedded
// Badger key-value database. Session entries carry a native TTL.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

const (
	sessionPrefix   = "session:"
	guidelinePrefix = "guideline:"
)

// Store implements domain.SessionStore and domain.GuidelineStore.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens (or creates) a database in dir. An empty dir opens an
// in-memory database. A zero ttl keeps sessions forever.
func Open(dir string, ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger db: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func sessionKey(id domain.SessionID) []byte {
	return []byte(sessionPrefix + string(id))
}

func guidelineKey(id domain.SessionID) []byte {
	return []byte(guidelinePrefix + string(id))
}

func (s *Store) Load(_ context.Context, id domain.SessionID) (*domain.Session, error) {
	var session domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	session.Normalize()
	return &session, nil
}

// Store writes the session and restarts its TTL.
func (s *Store) Store(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(session.ID), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (s *Store) Delete(_ context.Context, id domain.SessionID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (s *Store) SaveGuideline(_ context.Context, g *domain.SavedGuideline) error {
	if g == nil || g.SessionID == "" {
		return domain.ErrInvalidInput
	}

	saved := *g
	if saved.SavedAt.IsZero() {
		saved.SavedAt = time.Now()
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encoding guideline: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(guidelineKey(g.SessionID), data)
	})
}

func (s *Store) GetGuideline(_ context.Context, id domain.SessionID) (*domain.SavedGuideline, error) {
	var g domain.SavedGuideline
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(guidelineKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &g)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("guideline %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading guideline: %w", err)
	}
	return &g, nil
}
