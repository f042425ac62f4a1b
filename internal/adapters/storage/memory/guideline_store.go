package memory

import (
	"context"
	"sync"
	"time"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

// GuidelineStore is an in-memory domain.GuidelineStore.
// It is NOT persistent and is only suitable for development / local mode.
type GuidelineStore struct {
	mu         sync.RWMutex
	guidelines map[domain.SessionID]domain.SavedGuideline
}

func NewGuidelineStore() *GuidelineStore {
	return &GuidelineStore{
		guidelines: make(map[domain.SessionID]domain.SavedGuideline),
	}
}

// SaveGuideline replaces any guideline saved earlier for the session.
func (s *GuidelineStore) SaveGuideline(_ context.Context, g *domain.SavedGuideline) error {
	if g == nil || g.SessionID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *g
	if saved.SavedAt.IsZero() {
		saved.SavedAt = time.Now()
	}
	s.guidelines[g.SessionID] = saved
	return nil
}

func (s *GuidelineStore) GetGuideline(_ context.Context, id domain.SessionID) (*domain.SavedGuideline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.guidelines[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &g, nil
}
