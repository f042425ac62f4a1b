package firestore

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/storage/storetest"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

var testRun atomic.Int64

// prefixed keeps parallel runs against one emulator apart.
type prefixed struct {
	st     *Store
	prefix string
}

func (p prefixed) id(id domain.SessionID) domain.SessionID {
	return domain.SessionID(p.prefix) + id
}

func (p prefixed) Load(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	s, err := p.st.Load(ctx, p.id(id))
	if err != nil {
		return nil, err
	}
	s.ID = id
	return s, nil
}

func (p prefixed) Store(ctx context.Context, s *domain.Session) error {
	c := s.Clone()
	c.ID = p.id(s.ID)
	return p.st.Store(ctx, c)
}

func (p prefixed) Delete(ctx context.Context, id domain.SessionID) error {
	return p.st.Delete(ctx, p.id(id))
}

func (p prefixed) SaveGuideline(ctx context.Context, g *domain.SavedGuideline) error {
	c := *g
	c.SessionID = p.id(g.SessionID)
	return p.st.SaveGuideline(ctx, &c)
}

func (p prefixed) GetGuideline(ctx context.Context, id domain.SessionID) (*domain.SavedGuideline, error) {
	g, err := p.st.GetGuideline(ctx, p.id(id))
	if err != nil {
		return nil, err
	}
	g.SessionID = id
	return g, nil
}

func newEmulatorStore(t *testing.T) prefixed {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	st, err := NewStore(context.Background(), "content-planner-test", time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() {
		st.Close()
	})
	return prefixed{st: st, prefix: fmt.Sprintf("run%d-%d-", time.Now().UnixNano(), testRun.Add(1))}
}

func TestSessionStoreContract(t *testing.T) {
	storetest.RunSessionStore(t, func(t *testing.T) domain.SessionStore {
		return newEmulatorStore(t)
	})
}

func TestGuidelineStoreContract(t *testing.T) {
	storetest.RunGuidelineStore(t, func(t *testing.T) domain.GuidelineStore {
		return newEmulatorStore(t)
	})
}

func turn(id domain.SessionID, now time.Time, user, assistant string) *domain.Session {
	s := domain.NewSession(id, now)
	s.Messages = append(s.Messages,
		domain.Message{Role: domain.RoleUser, Content: user, CreatedAt: now},
		domain.Message{Role: domain.RoleAssistant, Content: assistant, CreatedAt: now},
	)
	return s
}

func TestStoreAfterExpiryStartsFreshHistory(t *testing.T) {
	p := newEmulatorStore(t)
	ctx := context.Background()

	start := time.Now()
	p.st.now = func() time.Time { return start }
	require.NoError(t, p.Store(ctx, turn("s1", start, "old question", "old answer")))

	later := start.Add(2 * time.Hour)
	p.st.now = func() time.Time { return later }
	_, err := p.Load(ctx, "s1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, p.Store(ctx, turn("s1", later, "new question", "new answer")))

	got, err := p.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "new question", got.Messages[0].Content)
	assert.Equal(t, "new answer", got.Messages[1].Content)
}

func TestStoreShorterHistoryDropsStaleMessages(t *testing.T) {
	p := newEmulatorStore(t)
	ctx := context.Background()
	now := time.Now()

	long := turn("s1", now, "q1", "a1")
	long.Messages = append(long.Messages,
		domain.Message{Role: domain.RoleUser, Content: "q2", CreatedAt: now},
		domain.Message{Role: domain.RoleAssistant, Content: "a2", CreatedAt: now},
	)
	require.NoError(t, p.Store(ctx, long))
	require.NoError(t, p.Store(ctx, turn("s1", now, "fresh", "reply")))

	got, err := p.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "fresh", got.Messages[0].Content)

	var remaining int
	iter := p.st.messagesCol(p.id("s1")).Documents(ctx)
	defer iter.Stop()
	for {
		if _, err := iter.Next(); err != nil {
			break
		}
		remaining++
	}
	assert.Equal(t, 2, remaining)
}
