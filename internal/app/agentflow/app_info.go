package agentflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/llm"
	"github.com/knbl-ai/content-planner-agent/internal/appinfo"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

const appInfoFallbackReply = "I'm sorry, I don't have specific information about this app."

// AppInfoAgent answers questions about the application itself.
type AppInfoAgent struct {
	llm  domain.LLMClient
	info appinfo.Info
}

func NewAppInfoAgent(llm domain.LLMClient, info appinfo.Info) *AppInfoAgent {
	return &AppInfoAgent{llm: llm, info: info}
}

func (a *AppInfoAgent) Name() string {
	return "app_info"
}

func (a *AppInfoAgent) Task() domain.Task {
	return domain.TaskAppInfo
}

func (a *AppInfoAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	log := observability.LoggerFromContext(ctx).With("agent", a.Name())
	s := in.Session

	question := fmt.Sprintf(
		"Question: %s\n\nApplication Information:\n%s\n\nPlease answer the question based on the provided application information.",
		lastUserText(s.Messages),
		a.info.JSON(),
	)

	reply, err := a.llm.Complete(ctx, llm.AppInfoSystemPrompt, turnsWithContext(s.Messages, question))
	if errors.Is(err, domain.ErrEmptyReply) {
		log.Warn("empty reply from model, using fallback")
		reply, err = appInfoFallbackReply, nil
	}
	if err != nil {
		return AgentOutput{}, err
	}

	out := carryOver(s, reply)
	out.AppContext = map[string]any(a.info)
	log.Info("app info response generated", "reply_len", len(reply))
	return out, nil
}
