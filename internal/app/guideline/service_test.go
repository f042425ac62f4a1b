package guideline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/storage/memory"
	"github.com/knbl-ai/content-planner-agent/internal/app/guideline"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	svc := guideline.NewService(memory.NewGuidelineStore())

	require.NoError(t, svc.Save(ctx, "s1", "# Final"))

	text, ok, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "# Final", text)

	text, ok, err = svc.Get(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestSaveRequiresSession(t *testing.T) {
	svc := guideline.NewService(memory.NewGuidelineStore())
	err := svc.Save(context.Background(), "", "# Final")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingStore struct{}

func (failingStore) SaveGuideline(context.Context, *domain.SavedGuideline) error {
	return errors.New("disk full")
}

func (failingStore) GetGuideline(context.Context, domain.SessionID) (*domain.SavedGuideline, error) {
	return nil, errors.New("disk full")
}

func TestStoreFailuresPropagate(t *testing.T) {
	ctx := context.Background()
	svc := guideline.NewService(failingStore{})

	require.Error(t, svc.Save(ctx, "s1", "x"))

	_, ok, err := svc.Get(ctx, "s1")
	require.Error(t, err)
	assert.False(t, ok)
}
