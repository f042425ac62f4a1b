package domain

import "context"

// Turn is one entry of the ordered sequence handed to the model.
type Turn struct {
	Role    Role
	Content string
}

// LLMClient defines how the core application interacts with an LLM service.
// Implementations normalize whatever the provider returns into one plain
// string and report an empty reply as ErrEmptyReply.
type LLMClient interface {
	Complete(ctx context.Context, system string, turns []Turn) (string, error)
}

// SessionStore defines session persistence. Load returns ErrNotFound for
// unknown ids. Implementations must not alias the returned state.
type SessionStore interface {
	Load(ctx context.Context, id SessionID) (*Session, error)
	Store(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id SessionID) error
}

// GuidelineStore persists saved guidelines. GetGuideline returns ErrNotFound
// for unknown ids.
type GuidelineStore interface {
	SaveGuideline(ctx context.Context, g *SavedGuideline) error
	GetGuideline(ctx context.Context, id SessionID) (*SavedGuideline, error)
}
