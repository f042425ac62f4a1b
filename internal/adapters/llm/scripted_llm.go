package llm

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

// Call is one recorded invocation of a ScriptedLLM.
type Call struct {
	System string
	Turns  []domain.Turn
}

// ScriptedReply is either a reply text or an error.
type ScriptedReply struct {
	Text string
	Err  error
}

// ScriptedLLM replays queued replies in order and records every call.
// Useful for tests.
type ScriptedLLM struct {
	mu      sync.Mutex
	replies []ScriptedReply
	calls   []Call
}

// NewScriptedLLM queues the given reply texts.
func NewScriptedLLM(texts ...string) *ScriptedLLM {
	s := &ScriptedLLM{}
	for _, t := range texts {
		s.replies = append(s.replies, ScriptedReply{Text: t})
	}
	return s
}

// Push queues another reply.
func (s *ScriptedLLM) Push(r ScriptedReply) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, r)
	return s
}

func (s *ScriptedLLM) Complete(_ context.Context, system string, turns []domain.Turn) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{System: system, Turns: slices.Clone(turns)})
	if len(s.replies) == 0 {
		return "", errors.New("scripted llm: no reply queued")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.Text, r.Err
}

// Calls returns a copy of the recorded calls.
func (s *ScriptedLLM) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}
