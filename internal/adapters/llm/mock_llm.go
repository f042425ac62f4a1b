package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/knbl-ai/content-planner-agent/internal/app/draft"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

// MockLLM answers offline with deterministic replies shaped like the real
// model's, so the whole flow can run locally without credentials.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(_ context.Context, system string, turns []domain.Turn) (string, error) {
	last := lastUserContent(turns)

	switch system {
	case RouterSystemPrompt:
		return mockClassify(last), nil
	case AppInfoSystemPrompt:
		return "Content Planner helps you draft a content guideline, generate example posts from it and save the final version.", nil
	case PostExamplesSystemPrompt:
		request := stripContext(turns, last, ExamplesContextPrefix)
		return fmt.Sprintf("POST EXAMPLE:\n%s\nEND POST EXAMPLE\n\nThis example follows your guideline.", request), nil
	default:
		request := stripContext(turns, last, DraftContextPrefix)
		return fmt.Sprintf("Noted. I added this to your guideline.\n\nGUIDELINE UPDATE:\n- %s\nEND GUIDELINE UPDATE", request), nil
	}
}

func lastUserContent(turns []domain.Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleUser {
			return turns[i].Content
		}
	}
	return ""
}

// stripContext drops a "<prefix><draft>\n\n" block in front of the raw text.
// The draft is rebuilt from the updates in earlier replies so a blank line
// inside either the draft or the user text does not move the cut.
func stripContext(turns []domain.Turn, content, prefix string) string {
	rest, ok := strings.CutPrefix(content, prefix)
	if !ok {
		return content
	}
	if current := replayDraft(turns); current != "" {
		if text, ok := strings.CutPrefix(rest, current+"\n\n"); ok {
			return text
		}
	}
	if _, text, ok := strings.Cut(rest, "\n\n"); ok {
		return text
	}
	return content
}

// replayDraft applies the guideline updates of the assistant turns in order.
func replayDraft(turns []domain.Turn) string {
	current := ""
	for _, t := range turns {
		if t.Role == domain.RoleAssistant && draft.HasUpdate(t.Content) {
			current = draft.Extract(t.Content, current)
		}
	}
	return current
}

func mockClassify(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "example") || strings.Contains(lower, "sample post"):
		return "post_examples"
	case strings.Contains(lower, "this app") || strings.Contains(lower, "feature") || strings.Contains(lower, "how do i"):
		return "app_info"
	default:
		return "guidelines"
	}
}
