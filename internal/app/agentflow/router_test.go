package agentflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/llm"
	"github.com/knbl-ai/content-planner-agent/internal/app/agentflow"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

func TestTaskFromLabel(t *testing.T) {
	tests := []struct {
		reply string
		want  domain.Task
	}{
		{"guidelines", domain.TaskGuidelines},
		{"The user wants to work on their Guideline.", domain.TaskGuidelines},
		{"app_info", domain.TaskAppInfo},
		{"This is about the APPLICATION", domain.TaskAppInfo},
		{"post_examples", domain.TaskPostExamples},
		{"Example posts please", domain.TaskPostExamples},
		// guideline wins over the other families
		{"post examples from the guideline", domain.TaskGuidelines},
		// "app" is checked before "post"
		{"app post", domain.TaskAppInfo},
		{"no idea", domain.TaskGuidelines},
		{"", domain.TaskGuidelines},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			assert.Equal(t, tt.want, agentflow.TaskFromLabel(tt.reply))
		})
	}
}

func TestIntentRouter_Classify(t *testing.T) {
	ctx := context.Background()

	t.Run("sends only the user text with the router prompt", func(t *testing.T) {
		model := llm.NewScriptedLLM("post_examples")
		r := agentflow.NewIntentRouter(model)

		task, err := r.Classify(ctx, "write me a few posts")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskPostExamples, task)

		calls := model.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, llm.RouterSystemPrompt, calls[0].System)
		assert.Equal(t, []domain.Turn{{Role: domain.RoleUser, Content: "write me a few posts"}}, calls[0].Turns)
	})

	t.Run("empty reply defaults to guidelines", func(t *testing.T) {
		model := llm.NewScriptedLLM().Push(llm.ScriptedReply{Err: domain.ErrEmptyReply})
		task, err := agentflow.NewIntentRouter(model).Classify(ctx, "hi")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskGuidelines, task)
	})

	t.Run("upstream failure is returned", func(t *testing.T) {
		boom := errors.New("boom")
		model := llm.NewScriptedLLM().Push(llm.ScriptedReply{Err: boom})
		_, err := agentflow.NewIntentRouter(model).Classify(ctx, "hi")
		require.ErrorIs(t, err, boom)
	})
}
