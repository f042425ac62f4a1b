// Package storetest holds behaviour every storage backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

func sampleSession(id domain.SessionID) *domain.Session {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := domain.NewSession(id, now)
	s.Messages = append(s.Messages,
		domain.Message{Role: domain.RoleUser, Content: "Help me plan Instagram content", CreatedAt: now},
		domain.Message{Role: domain.RoleAssistant, Content: "Sure.", CreatedAt: now},
	)
	s.GuidelineDraft = "Post 3x/week."
	s.CurrentTask = domain.TaskPostExamples
	s.PostExamples = []string{"Fresh roast Monday"}
	s.AppContext = map[string]any{"name": "Planner"}
	return s
}

// RunSessionStore exercises a domain.SessionStore. newStore must return an
// empty store.
func RunSessionStore(t *testing.T, newStore func(t *testing.T) domain.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("load unknown returns ErrNotFound", func(t *testing.T) {
		st := newStore(t)
		_, err := st.Load(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store then load round trips", func(t *testing.T) {
		st := newStore(t)
		want := sampleSession("s1")
		require.NoError(t, st.Store(ctx, want))

		got, err := st.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.GuidelineDraft, got.GuidelineDraft)
		assert.Equal(t, want.CurrentTask, got.CurrentTask)
		assert.Equal(t, want.PostExamples, got.PostExamples)
		assert.Equal(t, "Planner", got.AppContext["name"])
		require.Len(t, got.Messages, 2)
		assert.Equal(t, domain.RoleUser, got.Messages[0].Role)
		assert.Equal(t, "Help me plan Instagram content", got.Messages[0].Content)
		assert.Equal(t, domain.RoleAssistant, got.Messages[1].Role)
		assert.True(t, want.Messages[0].CreatedAt.Equal(got.Messages[0].CreatedAt))
	})

	t.Run("store overwrites", func(t *testing.T) {
		st := newStore(t)
		s := sampleSession("s1")
		require.NoError(t, st.Store(ctx, s))

		s.GuidelineDraft = "Post 3x/week.\n\nUse warm tones."
		s.Messages = append(s.Messages, domain.Message{Role: domain.RoleUser, Content: "more"})
		require.NoError(t, st.Store(ctx, s))

		got, err := st.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Post 3x/week.\n\nUse warm tones.", got.GuidelineDraft)
		assert.Len(t, got.Messages, 3)
	})

	t.Run("loaded state does not alias stored state", func(t *testing.T) {
		st := newStore(t)
		s := sampleSession("s1")
		require.NoError(t, st.Store(ctx, s))

		s.Messages[0].Content = "changed after store"

		got, err := st.Load(ctx, "s1")
		require.NoError(t, err)
		got.Messages = append(got.Messages, domain.Message{Role: domain.RoleUser, Content: "local"})
		got.PostExamples[0] = "local"

		again, err := st.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Help me plan Instagram content", again.Messages[0].Content)
		assert.Len(t, again.Messages, 2)
		assert.Equal(t, "Fresh roast Monday", again.PostExamples[0])
	})

	t.Run("delete removes and is idempotent", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Store(ctx, sampleSession("s1")))
		require.NoError(t, st.Delete(ctx, "s1"))
		require.NoError(t, st.Delete(ctx, "s1"))

		_, err := st.Load(ctx, "s1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("sessions are independent", func(t *testing.T) {
		st := newStore(t)
		a := sampleSession("a")
		b := sampleSession("b")
		b.GuidelineDraft = "other"
		require.NoError(t, st.Store(ctx, a))
		require.NoError(t, st.Store(ctx, b))

		got, err := st.Load(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "Post 3x/week.", got.GuidelineDraft)
	})
}

// RunGuidelineStore exercises a domain.GuidelineStore. newStore must return
// an empty store.
func RunGuidelineStore(t *testing.T, newStore func(t *testing.T) domain.GuidelineStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("save then get", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.SaveGuideline(ctx, &domain.SavedGuideline{
			SessionID: "s1",
			Guideline: "# Final",
			SavedAt:   time.Now(),
		}))

		got, err := st.GetGuideline(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "# Final", got.Guideline)
		assert.Equal(t, domain.SessionID("s1"), got.SessionID)
	})

	t.Run("unknown returns ErrNotFound", func(t *testing.T) {
		st := newStore(t)
		_, err := st.GetGuideline(ctx, "s2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("later save replaces earlier", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.SaveGuideline(ctx, &domain.SavedGuideline{SessionID: "s1", Guideline: "v1", SavedAt: time.Now()}))
		require.NoError(t, st.SaveGuideline(ctx, &domain.SavedGuideline{SessionID: "s1", Guideline: "v2", SavedAt: time.Now()}))

		got, err := st.GetGuideline(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Guideline)
	})
}
