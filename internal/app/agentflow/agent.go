package agentflow

import (
	"context"
	"maps"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

// AgentInput is the read-only view of the session an agent answers.
// Agents must not mutate it.
type AgentInput struct {
	Session *domain.Session
}

// AgentOutput is the state an agent proposes after answering one user turn.
type AgentOutput struct {
	Reply          string
	GuidelineDraft string
	PostExamples   []string
	AppContext     map[string]any
}

// Agent handles turns routed to one task.
type Agent interface {
	Name() string
	Task() domain.Task
	Run(ctx context.Context, in AgentInput) (AgentOutput, error)
}

// carryOver returns an output that keeps every session field unchanged.
func carryOver(s *domain.Session, reply string) AgentOutput {
	appCtx := make(map[string]any, len(s.AppContext))
	maps.Copy(appCtx, s.AppContext)
	return AgentOutput{
		Reply:          reply,
		GuidelineDraft: s.GuidelineDraft,
		PostExamples:   append([]string{}, s.PostExamples...),
		AppContext:     appCtx,
	}
}

// turnsWithContext converts the session history into model turns, replacing
// the content of the most recent user turn with augmented. The session
// itself keeps the raw text.
func turnsWithContext(messages []domain.Message, augmented string) []domain.Turn {
	turns := toTurns(messages)
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleUser {
			turns[i].Content = augmented
			break
		}
	}
	return turns
}

func toTurns(messages []domain.Message) []domain.Turn {
	turns := make([]domain.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, domain.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

func lastUserText(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
