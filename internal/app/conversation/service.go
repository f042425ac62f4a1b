package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/knbl-ai/content-planner-agent/internal/app/agentflow"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

// Service is the turn processor: it owns loading, advancing and writing back
// a session for one user message at a time.
type Service struct {
	sessionStore domain.SessionStore
	orchestrator *agentflow.Orchestrator
	now          func() time.Time
	locks        *sessionLocks
}

func NewService(sessionStore domain.SessionStore, orchestrator *agentflow.Orchestrator) *Service {
	return &Service{
		sessionStore: sessionStore,
		orchestrator: orchestrator,
		now:          time.Now,
		locks:        newSessionLocks(),
	}
}

type ProcessTurnInput struct {
	// SessionID may be empty; a new id is generated then.
	SessionID domain.SessionID
	Text      string
}

type ProcessTurnOutput struct {
	SessionID domain.SessionID
	Reply     string
	Task      domain.Task
	Session   *domain.Session
}

// ProcessTurn appends the user text to the session, runs the orchestrator
// until the turn ends and persists the result. Nothing is written when any
// step fails.
func (s *Service) ProcessTurn(ctx context.Context, in ProcessTurnInput) (*ProcessTurnOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}
	if in.SessionID == "" {
		in.SessionID = NewSessionID()
	}

	log := observability.LoggerFromContext(ctx).With("session_id", in.SessionID)
	log.Info("processing turn", "text_len", len(in.Text))

	unlock := s.locks.lock(in.SessionID)
	defer unlock()

	stored, err := s.loadOrCreate(ctx, in.SessionID)
	if err != nil {
		log.Error("failed to load session", "error", err)
		return nil, &TurnError{Op: "load", SessionID: in.SessionID, Err: err}
	}

	// work on a copy; the stored state only changes on success
	session := stored.Clone()
	now := s.now()
	session.Messages = append(session.Messages, domain.Message{
		Role:      domain.RoleUser,
		Content:   in.Text,
		CreatedAt: now,
	})
	session.UpdatedAt = now

	if err := s.orchestrator.Run(ctx, session); err != nil {
		log.Error("turn failed", "error", err)
		return nil, &TurnError{Op: "generate", SessionID: in.SessionID, Err: err}
	}

	last, _ := session.LastMessage()
	if last.Role != domain.RoleAssistant {
		return nil, &TurnError{Op: "generate", SessionID: in.SessionID, Err: errors.New("turn ended without an assistant reply")}
	}

	if err := s.sessionStore.Store(ctx, session); err != nil {
		log.Error("failed to store session", "error", err)
		return nil, &TurnError{Op: "store", SessionID: in.SessionID, Err: err}
	}

	log.Info("turn completed",
		"task", session.CurrentTask,
		"draft_len", len(session.GuidelineDraft),
		"messages", len(session.Messages),
	)

	return &ProcessTurnOutput{
		SessionID: session.ID,
		Reply:     last.Content,
		Task:      session.CurrentTask,
		Session:   session,
	}, nil
}

// GetSession returns the stored session or domain.ErrNotFound.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	session, err := s.sessionStore.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			observability.LoggerFromContext(ctx).Error("failed to get session", "session_id", id, "error", err)
		}
		return nil, err
	}
	return session, nil
}

// PostExamples returns the examples generated so far. Unknown sessions have
// none.
func (s *Service) PostExamples(ctx context.Context, id domain.SessionID) ([]string, error) {
	session, err := s.sessionStore.Load(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if session.PostExamples == nil {
		return []string{}, nil
	}
	return session.PostExamples, nil
}

// Reset drops all state kept for the session.
func (s *Service) Reset(ctx context.Context, id domain.SessionID) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.sessionStore.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	observability.LoggerFromContext(ctx).Info("session reset", "session_id", id)
	return nil
}

func (s *Service) loadOrCreate(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	session, err := s.sessionStore.Load(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		observability.LoggerFromContext(ctx).Info("starting new session", "session_id", id)
		return domain.NewSession(id, s.now()), nil
	}
	if err != nil {
		return nil, err
	}
	session.Normalize()
	return session, nil
}

// NewSessionID returns a fresh time-ordered session id.
func NewSessionID() domain.SessionID {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.SessionID(uuid.NewString())
	}
	return domain.SessionID(id.String())
}
