package agentflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

var errNoAgent = errors.New("no agent configured for task")

// Orchestrator advances a session one transition at a time: route the
// latest user message, hand it to the agent for that task, and append its
// reply. A session whose last message is assistant-authored is finished.
type Orchestrator struct {
	router *IntentRouter
	agents map[domain.Task]Agent
	now    func() time.Time
}

// NewOrchestrator builds a routed flow. A nil router sends every turn to
// the guidelines agent.
func NewOrchestrator(router *IntentRouter, agents ...Agent) *Orchestrator {
	o := &Orchestrator{
		router: router,
		agents: make(map[domain.Task]Agent, len(agents)),
		now:    time.Now,
	}
	for _, ag := range agents {
		o.agents[ag.Task()] = ag
	}
	return o
}

// NewDefaultOrchestrator constructs the routed flow with all three agents.
func NewDefaultOrchestrator(llm domain.LLMClient, agents ...Agent) *Orchestrator {
	return NewOrchestrator(NewIntentRouter(llm), agents...)
}

// Step performs a single transition on s. It reports done, without calling
// the model, once the last message is assistant-authored or there is
// nothing to answer. On error s is left unchanged.
func (o *Orchestrator) Step(ctx context.Context, s *domain.Session) (bool, error) {
	if s.LastIsAssistant() {
		return true, nil
	}
	last, ok := s.LastMessage()
	if !ok {
		return true, nil
	}

	log := observability.LoggerFromContext(ctx).With("session_id", s.ID)

	task := domain.TaskGuidelines
	if o.router != nil {
		var err error
		task, err = o.router.Classify(ctx, last.Content)
		if err != nil {
			log.Error("router failed", "error", err)
			return false, err
		}
	}

	ag, ok := o.agents[task]
	if !ok {
		ag, ok = o.agents[domain.TaskGuidelines]
		if !ok {
			return false, fmt.Errorf("%w: %s", errNoAgent, task)
		}
	}

	start := time.Now()
	log.Info("agent run start", "agent", ag.Name())

	out, err := ag.Run(ctx, AgentInput{Session: s})
	if err != nil {
		log.Error("agent failed", "agent", ag.Name(), "error", err)
		return false, fmt.Errorf("agent %s failed: %w", ag.Name(), err)
	}

	log.Info("agent run end", "agent", ag.Name(), "elapsed_ms", time.Since(start).Milliseconds())

	now := o.now()
	s.CurrentTask = ag.Task()
	s.GuidelineDraft = out.GuidelineDraft
	s.PostExamples = out.PostExamples
	s.AppContext = out.AppContext
	s.Messages = append(s.Messages, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   out.Reply,
		CreatedAt: now,
	})
	s.UpdatedAt = now
	return false, nil
}

// Run steps s until it terminates.
func (o *Orchestrator) Run(ctx context.Context, s *domain.Session) error {
	log := observability.LoggerFromContext(ctx).With("session_id", s.ID)
	log.Info("orchestrator started", "agents_count", len(o.agents), "routed", o.router != nil)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := o.Step(ctx, s)
		if err != nil {
			return err
		}
		if done {
			log.Info("orchestrator end", "task", s.CurrentTask)
			return nil
		}
	}
}
