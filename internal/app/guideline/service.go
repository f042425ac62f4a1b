package guideline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

// Service holds the logic of saving and reading final guidelines.
type Service struct {
	store domain.GuidelineStore
	now   func() time.Time
}

// NewService creates a guideline service from a GuidelineStore
func NewService(store domain.GuidelineStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Save records text as the final guideline of the session, replacing any
// earlier save. The live session draft is not touched.
func (s *Service) Save(ctx context.Context, id domain.SessionID, text string) error {
	log := observability.LoggerFromContext(ctx).With("session_id", id)

	if id == "" {
		return fmt.Errorf("%w: session_id is required", domain.ErrInvalidInput)
	}

	err := s.store.SaveGuideline(ctx, &domain.SavedGuideline{
		SessionID: id,
		Guideline: text,
		SavedAt:   s.now(),
	})
	if err != nil {
		log.Error("failed to save guideline", "error", err)
		return fmt.Errorf("saving guideline: %w", err)
	}

	log.Info("guideline saved", "guideline_len", len(text))
	return nil
}

// Get returns the saved guideline. Unknown sessions report ok=false
// without error.
func (s *Service) Get(ctx context.Context, id domain.SessionID) (string, bool, error) {
	g, err := s.store.GetGuideline(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to get guideline", "session_id", id, "error", err)
		return "", false, err
	}
	return g.Guideline, true, nil
}
