package agentflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/llm"
	"github.com/knbl-ai/content-planner-agent/internal/app/agentflow"
	"github.com/knbl-ai/content-planner-agent/internal/appinfo"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

func sessionWith(draft string, texts ...string) *domain.Session {
	s := domain.NewSession("s1", time.Unix(0, 0))
	s.GuidelineDraft = draft
	for i, text := range texts {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		s.Messages = append(s.Messages, domain.Message{Role: role, Content: text})
	}
	return s
}

func TestGuidelinesAgent(t *testing.T) {
	ctx := context.Background()

	t.Run("no draft sends the history unchanged", func(t *testing.T) {
		model := llm.NewScriptedLLM("Sounds good.\n\nGUIDELINE UPDATE:\n# Voice\nFriendly\nEND GUIDELINE UPDATE")
		ag := agentflow.NewGuidelinesAgent(model)

		s := sessionWith("", "Make it friendly")
		out, err := ag.Run(ctx, agentflow.AgentInput{Session: s})
		require.NoError(t, err)

		assert.Equal(t, "# Voice\nFriendly", out.GuidelineDraft)
		assert.Contains(t, out.Reply, "Sounds good.")

		calls := model.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, llm.GuidelinesSystemPrompt, calls[0].System)
		assert.Equal(t, "Make it friendly", calls[0].Turns[0].Content)
	})

	t.Run("existing draft is prepended to the last user turn only", func(t *testing.T) {
		model := llm.NewScriptedLLM("Noted.")
		ag := agentflow.NewGuidelinesAgent(model)

		s := sessionWith("# Voice", "first", "ok", "second")
		out, err := ag.Run(ctx, agentflow.AgentInput{Session: s})
		require.NoError(t, err)

		turns := model.Calls()[0].Turns
		require.Len(t, turns, 3)
		assert.Equal(t, "first", turns[0].Content)
		assert.Equal(t, "Current guideline draft:\n# Voice\n\nsecond", turns[2].Content)

		// short reply without markers keeps the draft
		assert.Equal(t, "# Voice", out.GuidelineDraft)
		// session is not mutated
		assert.Equal(t, "second", s.Messages[2].Content)
	})

	t.Run("empty reply falls back to a fixed phrase", func(t *testing.T) {
		model := llm.NewScriptedLLM().Push(llm.ScriptedReply{Err: domain.ErrEmptyReply})
		out, err := agentflow.NewGuidelinesAgent(model).Run(ctx, agentflow.AgentInput{Session: sessionWith("", "hi")})
		require.NoError(t, err)
		assert.Equal(t, "Let me help you create effective content guidelines.", out.Reply)
	})

	t.Run("upstream failure is returned", func(t *testing.T) {
		model := llm.NewScriptedLLM().Push(llm.ScriptedReply{Err: llm.ErrUnavailable})
		_, err := agentflow.NewGuidelinesAgent(model).Run(ctx, agentflow.AgentInput{Session: sessionWith("", "hi")})
		require.ErrorIs(t, err, llm.ErrUnavailable)
	})
}

func TestAppInfoAgent(t *testing.T) {
	ctx := context.Background()
	info := appinfo.Info{"name": "Planner"}

	model := llm.NewScriptedLLM("It plans content.")
	ag := agentflow.NewAppInfoAgent(model, info)

	out, err := ag.Run(ctx, agentflow.AgentInput{Session: sessionWith("", "What does it do?")})
	require.NoError(t, err)
	assert.Equal(t, "It plans content.", out.Reply)
	assert.Equal(t, "Planner", out.AppContext["name"])

	call := model.Calls()[0]
	assert.Equal(t, llm.AppInfoSystemPrompt, call.System)
	content := call.Turns[len(call.Turns)-1].Content
	assert.True(t, strings.HasPrefix(content, "Question: What does it do?\n\nApplication Information:\n"))
	assert.Contains(t, content, `"name"`)
	assert.True(t, strings.HasSuffix(content, "Please answer the question based on the provided application information."))

	t.Run("empty reply falls back", func(t *testing.T) {
		model := llm.NewScriptedLLM().Push(llm.ScriptedReply{Err: domain.ErrEmptyReply})
		out, err := agentflow.NewAppInfoAgent(model, info).Run(ctx, agentflow.AgentInput{Session: sessionWith("", "?")})
		require.NoError(t, err)
		assert.Equal(t, "I'm sorry, I don't have specific information about this app.", out.Reply)
	})
}

func TestPostExamplesAgent(t *testing.T) {
	ctx := context.Background()

	t.Run("no draft answers without calling the model", func(t *testing.T) {
		model := llm.NewScriptedLLM()
		out, err := agentflow.NewPostExamplesAgent(model).Run(ctx, agentflow.AgentInput{Session: sessionWith("", "examples?")})
		require.NoError(t, err)
		assert.Equal(t, "I don't have any content guidelines to base examples on. Let's create some guidelines first.", out.Reply)
		assert.Empty(t, model.Calls())
	})

	t.Run("extracts and merges examples", func(t *testing.T) {
		model := llm.NewScriptedLLM("POST EXAMPLE:\nNew post\nEND POST EXAMPLE\nPOST EXAMPLE: Old post END POST EXAMPLE")
		s := sessionWith("# Voice", "examples please")
		s.PostExamples = []string{"Old post"}

		out, err := agentflow.NewPostExamplesAgent(model).Run(ctx, agentflow.AgentInput{Session: s})
		require.NoError(t, err)
		assert.Equal(t, []string{"Old post", "New post"}, out.PostExamples)
		assert.Equal(t, "# Voice", out.GuidelineDraft)

		turns := model.Calls()[0].Turns
		assert.Equal(t, "Generate post examples based on these content guidelines:\n# Voice\n\nexamples please", turns[0].Content)
	})

	t.Run("empty reply falls back", func(t *testing.T) {
		model := llm.NewScriptedLLM().Push(llm.ScriptedReply{Err: domain.ErrEmptyReply})
		out, err := agentflow.NewPostExamplesAgent(model).Run(ctx, agentflow.AgentInput{Session: sessionWith("# Voice", "x")})
		require.NoError(t, err)
		assert.Equal(t, "Here are some example posts based on your guidelines.", out.Reply)
	})

	t.Run("upstream failure is returned", func(t *testing.T) {
		boom := errors.New("boom")
		model := llm.NewScriptedLLM().Push(llm.ScriptedReply{Err: boom})
		_, err := agentflow.NewPostExamplesAgent(model).Run(ctx, agentflow.AgentInput{Session: sessionWith("# Voice", "x")})
		require.ErrorIs(t, err, boom)
	})
}
