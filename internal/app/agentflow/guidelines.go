package agentflow

import (
	"context"
	"errors"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/llm"
	"github.com/knbl-ai/content-planner-agent/internal/app/draft"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

const guidelinesFallbackReply = "Let me help you create effective content guidelines."

// GuidelinesAgent drafts the guideline and folds updates into the draft.
type GuidelinesAgent struct {
	llm domain.LLMClient
}

func NewGuidelinesAgent(llm domain.LLMClient) *GuidelinesAgent {
	return &GuidelinesAgent{llm: llm}
}

func (a *GuidelinesAgent) Name() string {
	return "guidelines"
}

func (a *GuidelinesAgent) Task() domain.Task {
	return domain.TaskGuidelines
}

func (a *GuidelinesAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	log := observability.LoggerFromContext(ctx).With("agent", a.Name())
	s := in.Session

	turns := toTurns(s.Messages)
	if s.GuidelineDraft != "" {
		augmented := llm.DraftContextPrefix + s.GuidelineDraft + "\n\n" + lastUserText(s.Messages)
		turns = turnsWithContext(s.Messages, augmented)
		log.Debug("added guideline draft context to user message", "draft_len", len(s.GuidelineDraft))
	}

	reply, err := a.llm.Complete(ctx, llm.GuidelinesSystemPrompt, turns)
	if errors.Is(err, domain.ErrEmptyReply) {
		log.Warn("empty reply from model, using fallback")
		reply, err = guidelinesFallbackReply, nil
	}
	if err != nil {
		return AgentOutput{}, err
	}

	out := carryOver(s, reply)
	out.GuidelineDraft = draft.Extract(reply, s.GuidelineDraft)

	if out.GuidelineDraft != s.GuidelineDraft {
		log.Info("guideline draft was updated", "draft_len", len(out.GuidelineDraft))
	} else {
		log.Info("no changes to guideline draft")
	}
	return out, nil
}
