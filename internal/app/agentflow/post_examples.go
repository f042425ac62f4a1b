package agentflow

import (
	"context"
	"errors"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/llm"
	"github.com/knbl-ai/content-planner-agent/internal/app/draft"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

const (
	postExamplesFallbackReply = "Here are some example posts based on your guidelines."
	noGuidelineReply          = "I don't have any content guidelines to base examples on. Let's create some guidelines first."
)

// PostExamplesAgent writes example posts from the current draft.
type PostExamplesAgent struct {
	llm domain.LLMClient
}

func NewPostExamplesAgent(llm domain.LLMClient) *PostExamplesAgent {
	return &PostExamplesAgent{llm: llm}
}

func (a *PostExamplesAgent) Name() string {
	return "post_examples"
}

func (a *PostExamplesAgent) Task() domain.Task {
	return domain.TaskPostExamples
}

func (a *PostExamplesAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	log := observability.LoggerFromContext(ctx).With("agent", a.Name())
	s := in.Session

	if s.GuidelineDraft == "" {
		log.Warn("no guideline draft available for post examples")
		return carryOver(s, noGuidelineReply), nil
	}

	augmented := llm.ExamplesContextPrefix + s.GuidelineDraft + "\n\n" + lastUserText(s.Messages)
	reply, err := a.llm.Complete(ctx, llm.PostExamplesSystemPrompt, turnsWithContext(s.Messages, augmented))
	if errors.Is(err, domain.ErrEmptyReply) {
		log.Warn("empty reply from model, using fallback")
		reply, err = postExamplesFallbackReply, nil
	}
	if err != nil {
		return AgentOutput{}, err
	}

	found := draft.ExtractPostExamples(reply)
	out := carryOver(s, reply)
	out.PostExamples = draft.MergeExamples(s.PostExamples, found)

	log.Info("post examples extracted", "found", len(found), "total", len(out.PostExamples))
	return out, nil
}
