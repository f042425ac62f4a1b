package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/llm"
	"github.com/knbl-ai/content-planner-agent/internal/app/draft"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

func userTurn(s string) []domain.Turn {
	return []domain.Turn{{Role: domain.RoleUser, Content: s}}
}

func TestMockLLM_GuidelinesReplyCarriesUpdate(t *testing.T) {
	m := llm.NewMockLLM()
	reply, err := m.Complete(context.Background(), llm.GuidelinesSystemPrompt,
		userTurn(llm.DraftContextPrefix+"- old\n\nPost on weekdays"))
	require.NoError(t, err)

	assert.Equal(t, "- Post on weekdays", draft.Extract(reply, ""))
}

func TestMockLLM_KeepsBlankLinesOfUserText(t *testing.T) {
	m := llm.NewMockLLM()
	ctx := context.Background()

	first, err := m.Complete(ctx, llm.GuidelinesSystemPrompt, userTurn("Voice is warm"))
	require.NoError(t, err)
	current := draft.Extract(first, "")

	second, err := m.Complete(ctx, llm.GuidelinesSystemPrompt, userTurn("Hashtags\n\nno more than three"))
	require.NoError(t, err)
	current = draft.Extract(second, current)
	require.Equal(t, "- Voice is warm\n\n- Hashtags\n\nno more than three", current)

	turns := []domain.Turn{
		{Role: domain.RoleUser, Content: "Voice is warm"},
		{Role: domain.RoleAssistant, Content: first},
		{Role: domain.RoleUser, Content: "Hashtags\n\nno more than three"},
		{Role: domain.RoleAssistant, Content: second},
		{Role: domain.RoleUser, Content: llm.DraftContextPrefix + current + "\n\nPost at noon\n\nand at six"},
	}
	reply, err := m.Complete(ctx, llm.GuidelinesSystemPrompt, turns)
	require.NoError(t, err)
	assert.Equal(t, current+"\n\n- Post at noon\n\nand at six", draft.Extract(reply, current))

	turns[4].Content = llm.ExamplesContextPrefix + current + "\n\nInstagram\n\nplease"
	reply, err = m.Complete(ctx, llm.PostExamplesSystemPrompt, turns)
	require.NoError(t, err)
	assert.Equal(t, []string{"Instagram\n\nplease"}, draft.ExtractPostExamples(reply))
}

func TestMockLLM_Classify(t *testing.T) {
	m := llm.NewMockLLM()
	ctx := context.Background()

	tests := map[string]string{
		"Give me three examples for LinkedIn": "post_examples",
		"What features does this app have?":   "app_info",
		"We sell coffee to students":          "guidelines",
	}
	for in, want := range tests {
		got, err := m.Complete(ctx, llm.RouterSystemPrompt, userTurn(in))
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestMockLLM_PostExamples(t *testing.T) {
	m := llm.NewMockLLM()
	reply, err := m.Complete(context.Background(), llm.PostExamplesSystemPrompt,
		userTurn(llm.ExamplesContextPrefix+"be warm\n\nInstagram please"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Instagram please"}, draft.ExtractPostExamples(reply))
}

func TestScriptedLLM(t *testing.T) {
	boom := errors.New("boom")
	s := llm.NewScriptedLLM("first").Push(llm.ScriptedReply{Err: boom})
	ctx := context.Background()

	got, err := s.Complete(ctx, "sys", userTurn("a"))
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	_, err = s.Complete(ctx, "sys", userTurn("b"))
	assert.ErrorIs(t, err, boom)

	_, err = s.Complete(ctx, "sys", userTurn("c"))
	assert.Error(t, err)

	calls := s.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "sys", calls[0].System)
	assert.Equal(t, "b", calls[1].Turns[0].Content)
}
