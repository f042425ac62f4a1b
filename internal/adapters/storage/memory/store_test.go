package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/storage/memory"
	"github.com/knbl-ai/content-planner-agent/internal/adapters/storage/storetest"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

func TestSessionStoreContract(t *testing.T) {
	storetest.RunSessionStore(t, func(t *testing.T) domain.SessionStore {
		return memory.NewSessionStore()
	})
}

func TestGuidelineStoreContract(t *testing.T) {
	storetest.RunGuidelineStore(t, func(t *testing.T) domain.GuidelineStore {
		return memory.NewGuidelineStore()
	})
}

func TestSessionStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	st := memory.NewSessionStore(memory.WithTTL(time.Hour), memory.WithClock(clock))
	require.NoError(t, st.Store(ctx, domain.NewSession("s1", now)))

	now = now.Add(30 * time.Minute)
	_, err := st.Load(ctx, "s1")
	require.NoError(t, err, "load within ttl")

	// the load above refreshed the entry
	now = now.Add(59 * time.Minute)
	_, err = st.Load(ctx, "s1")
	require.NoError(t, err)

	now = now.Add(61 * time.Minute)
	_, err = st.Load(ctx, "s1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestSessionStore_LRUBound(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	st := memory.NewSessionStore(memory.WithMaxSessions(2), memory.WithTTL(0))
	require.NoError(t, st.Store(ctx, domain.NewSession("a", now)))
	require.NoError(t, st.Store(ctx, domain.NewSession("b", now)))

	// touch a so b becomes least recently used
	_, err := st.Load(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, st.Store(ctx, domain.NewSession("c", now)))
	assert.Equal(t, 2, st.Len())

	_, err = st.Load(ctx, "b")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = st.Load(ctx, "a")
	require.NoError(t, err)
	_, err = st.Load(ctx, "c")
	require.NoError(t, err)
}
