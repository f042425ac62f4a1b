// Package sqlite stores sessions and saved guidelines in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

// Store implements domain.SessionStore and domain.GuidelineStore.
// Sessions not written for longer than the TTL are treated as absent and
// removed when read.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore wraps an opened database. A zero ttl disables expiry.
func NewStore(db *sql.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl, now: time.Now}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	query := `SELECT id, messages, guideline_draft, current_task, post_examples, app_context, created_at, updated_at
		FROM sessions WHERE id = ?`

	var (
		session                                domain.Session
		messagesJSON, examplesJSON, appCtxJSON string
		task, createdAtStr, updatedAtStr       string
	)
	err := s.db.QueryRowContext(ctx, query, string(id)).Scan(
		&session.ID, &messagesJSON, &session.GuidelineDraft, &task,
		&examplesJSON, &appCtxJSON, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	if session.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if session.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	if s.ttl > 0 && s.now().Sub(session.UpdatedAt) > s.ttl {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("session %s expired: %w", id, domain.ErrNotFound)
	}

	if err := json.Unmarshal([]byte(messagesJSON), &session.Messages); err != nil {
		return nil, fmt.Errorf("decoding messages: %w", err)
	}
	if err := json.Unmarshal([]byte(examplesJSON), &session.PostExamples); err != nil {
		return nil, fmt.Errorf("decoding post examples: %w", err)
	}
	if err := json.Unmarshal([]byte(appCtxJSON), &session.AppContext); err != nil {
		return nil, fmt.Errorf("decoding app context: %w", err)
	}
	session.CurrentTask = domain.Task(task)
	session.Normalize()

	return &session, nil
}

func (s *Store) Store(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}

	messagesJSON, err := json.Marshal(nonNilMessages(session.Messages))
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}
	examplesJSON, err := json.Marshal(nonNilStrings(session.PostExamples))
	if err != nil {
		return fmt.Errorf("encoding post examples: %w", err)
	}
	appCtx := session.AppContext
	if appCtx == nil {
		appCtx = map[string]any{}
	}
	appCtxJSON, err := json.Marshal(appCtx)
	if err != nil {
		return fmt.Errorf("encoding app context: %w", err)
	}

	updatedAt := session.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	query := `INSERT INTO sessions (id, messages, guideline_draft, current_task, post_examples, app_context, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			messages = excluded.messages,
			guideline_draft = excluded.guideline_draft,
			current_task = excluded.current_task,
			post_examples = excluded.post_examples,
			app_context = excluded.app_context,
			updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query,
		string(session.ID),
		string(messagesJSON),
		session.GuidelineDraft,
		string(session.CurrentTask),
		string(examplesJSON),
		string(appCtxJSON),
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
		updatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.SessionID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *Store) SaveGuideline(ctx context.Context, g *domain.SavedGuideline) error {
	if g == nil || g.SessionID == "" {
		return domain.ErrInvalidInput
	}
	savedAt := g.SavedAt
	if savedAt.IsZero() {
		savedAt = s.now()
	}

	query := `INSERT INTO saved_guidelines (session_id, guideline, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET guideline = excluded.guideline, saved_at = excluded.saved_at`
	if _, err := s.db.ExecContext(ctx, query,
		string(g.SessionID), g.Guideline, savedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("saving guideline: %w", err)
	}
	return nil
}

func (s *Store) GetGuideline(ctx context.Context, id domain.SessionID) (*domain.SavedGuideline, error) {
	var (
		g          domain.SavedGuideline
		savedAtStr string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, guideline, saved_at FROM saved_guidelines WHERE session_id = ?`, string(id),
	).Scan(&g.SessionID, &g.Guideline, &savedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("guideline %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading guideline: %w", err)
	}
	if g.SavedAt, err = time.Parse(time.RFC3339Nano, savedAtStr); err != nil {
		return nil, fmt.Errorf("parsing saved_at: %w", err)
	}
	return &g, nil
}

func nonNilMessages(m []domain.Message) []domain.Message {
	if m == nil {
		return []domain.Message{}
	}
	return m
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
