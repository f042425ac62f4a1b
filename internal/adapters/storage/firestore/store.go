package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

// Store implements domain.SessionStore and domain.GuidelineStore on
// Firestore. Sessions expire through a collection TTL policy on expires_at;
// documents past that instant are treated as absent until removed.
type Store struct {
	client *firestore.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a Firestore store.
// Uses the project passed (CONTENT_PLANNER_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string, ttl time.Duration) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, ttl: ttl, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) messagesCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionDoc(sessionID).Collection("messages")
}

// messageDoc ids are zero-padded positions so rewriting a message is
// idempotent and ids sort in conversation order.
func (s *Store) messageDoc(sessionID domain.SessionID, seq int) *firestore.DocumentRef {
	return s.messagesCol(sessionID).Doc(fmt.Sprintf("%08d", seq))
}

func (s *Store) guidelineDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.client.Collection("guidelines").Doc(string(id))
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type sessionDoc struct {
	GuidelineDraft string         `firestore:"guideline_draft"`
	CurrentTask    string         `firestore:"current_task"`
	PostExamples   []string       `firestore:"posts_examples"`
	AppContext     map[string]any `firestore:"app_context"`
	MessageCount   int            `firestore:"message_count"`
	CreatedAt      time.Time      `firestore:"created_at"`
	UpdatedAt      time.Time      `firestore:"updated_at"`
	ExpiresAt      *time.Time     `firestore:"expires_at"`
}

type messageDoc struct {
	Seq       int       `firestore:"seq"`
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

type guidelineDoc struct {
	Guideline string    `firestore:"guideline"`
	SavedAt   time.Time `firestore:"saved_at"`
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) Load(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore Load: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore Load decode: %w", err)
	}
	if doc.ExpiresAt != nil && s.now().After(*doc.ExpiresAt) {
		return nil, fmt.Errorf("session %s expired: %w", id, domain.ErrNotFound)
	}

	messages, err := s.loadMessages(ctx, id, doc.MessageCount)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:             id,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
		Messages:       messages,
		GuidelineDraft: doc.GuidelineDraft,
		CurrentTask:    domain.Task(doc.CurrentTask),
		PostExamples:   doc.PostExamples,
		AppContext:     doc.AppContext,
	}
	session.Normalize()
	return session, nil
}

// loadMessages reads the first count messages; positions past count belong
// to a write that has not committed the session document.
func (s *Store) loadMessages(ctx context.Context, id domain.SessionID, count int) ([]domain.Message, error) {
	iter := s.messagesCol(id).Where("seq", "<", count).OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := make([]domain.Message, 0, count)
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore loadMessages: %w", err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}
		out = append(out, domain.Message{
			Role:      domain.Role(doc.Role),
			Content:   doc.Content,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

// Store writes the session document and the messages appended since the
// last write in one transaction.
func (s *Store) Store(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}

	doc := sessionDoc{
		GuidelineDraft: session.GuidelineDraft,
		CurrentTask:    string(session.CurrentTask),
		PostExamples:   session.PostExamples,
		AppContext:     session.AppContext,
		MessageCount:   len(session.Messages),
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}
	if s.ttl > 0 {
		exp := s.now().Add(s.ttl)
		doc.ExpiresAt = &exp
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.sessionDoc(session.ID)

		stored, stale := 0, 0
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			var prev sessionDoc
			if err := snap.DataTo(&prev); err != nil {
				return fmt.Errorf("decode sessionDoc: %w", err)
			}
			stored = prev.MessageCount
			// An expired document the TTL policy has not removed yet is not
			// the history of this session; its messages are rewritten.
			if prev.ExpiresAt != nil && s.now().After(*prev.ExpiresAt) {
				stale, stored = prev.MessageCount, 0
			}
		case isNotFound(err):
		default:
			return err
		}
		if stored > len(session.Messages) {
			stale, stored = stored, 0
		}

		for i := len(session.Messages); i < stale; i++ {
			if err := tx.Delete(s.messageDoc(session.ID, i)); err != nil {
				return err
			}
		}
		for i := stored; i < len(session.Messages); i++ {
			m := session.Messages[i]
			if err := tx.Set(s.messageDoc(session.ID, i), messageDoc{
				Seq:       i,
				Role:      string(m.Role),
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
			}); err != nil {
				return err
			}
		}
		return tx.Set(ref, doc)
	})
	if err != nil {
		return fmt.Errorf("firestore Store: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.SessionID) error {
	iter := s.messagesCol(id).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return fmt.Errorf("firestore Delete messages: %w", err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("firestore Delete message: %w", err)
		}
	}

	if _, err := s.sessionDoc(id).Delete(ctx); err != nil && !isNotFound(err) {
		return fmt.Errorf("firestore Delete: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// GuidelineStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveGuideline(ctx context.Context, g *domain.SavedGuideline) error {
	if g == nil || g.SessionID == "" {
		return domain.ErrInvalidInput
	}

	savedAt := g.SavedAt
	if savedAt.IsZero() {
		savedAt = s.now()
	}

	_, err := s.guidelineDoc(g.SessionID).Set(ctx, guidelineDoc{
		Guideline: g.Guideline,
		SavedAt:   savedAt,
	})
	if err != nil {
		return fmt.Errorf("firestore SaveGuideline: %w", err)
	}
	return nil
}

func (s *Store) GetGuideline(ctx context.Context, id domain.SessionID) (*domain.SavedGuideline, error) {
	snap, err := s.guidelineDoc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("guideline %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore GetGuideline: %w", err)
	}

	var doc guidelineDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetGuideline decode: %w", err)
	}

	return &domain.SavedGuideline{
		SessionID: id,
		Guideline: doc.Guideline,
		SavedAt:   doc.SavedAt,
	}, nil
}
