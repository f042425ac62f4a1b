package agentflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/llm"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

// IntentRouter picks the task a user message is handled by.
type IntentRouter struct {
	llm domain.LLMClient
}

func NewIntentRouter(llm domain.LLMClient) *IntentRouter {
	return &IntentRouter{llm: llm}
}

// Classify asks the model for a label and maps its free-text answer onto a
// task. An empty answer routes to guidelines; a failed call is returned.
func (r *IntentRouter) Classify(ctx context.Context, text string) (domain.Task, error) {
	log := observability.LoggerFromContext(ctx)

	reply, err := r.llm.Complete(ctx, llm.RouterSystemPrompt, []domain.Turn{
		{Role: domain.RoleUser, Content: text},
	})
	if errors.Is(err, domain.ErrEmptyReply) {
		log.Warn("router received empty classification, defaulting to guidelines")
		return domain.TaskGuidelines, nil
	}
	if err != nil {
		return "", fmt.Errorf("classify intent: %w", err)
	}

	task := TaskFromLabel(reply)
	log.Info("router detected intent", "reply", strings.TrimSpace(reply), "task", task)
	return task, nil
}

// TaskFromLabel matches a classification reply case-insensitively against
// the keyword families guideline, app/application and post/example, in
// that order. Anything else is guidelines.
func TaskFromLabel(reply string) domain.Task {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "guideline"):
		return domain.TaskGuidelines
	case strings.Contains(lower, "app"), strings.Contains(lower, "application"):
		return domain.TaskAppInfo
	case strings.Contains(lower, "post"), strings.Contains(lower, "example"):
		return domain.TaskPostExamples
	default:
		return domain.TaskGuidelines
	}
}
