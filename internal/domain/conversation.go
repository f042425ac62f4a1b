package domain

import "maps"

// Message is a single turn entry in a session timeline (user or assistant).
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

// Session is the persisted conversation state carried across turns.
type Session struct {
	ID        SessionID `json:"id"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`

	// Messages is append-only; its order is replayed to the model.
	Messages []Message `json:"messages"`

	// GuidelineDraft only ever grows once an update has been found.
	GuidelineDraft string `json:"guideline_draft"`

	CurrentTask  Task           `json:"current_task"`
	PostExamples []string       `json:"posts_examples"`
	AppContext   map[string]any `json:"app_context"`
}

// NewSession returns the initial state for a previously unseen id.
func NewSession(id SessionID, now Timestamp) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		UpdatedAt:    now,
		Messages:     []Message{},
		CurrentTask:  TaskGuidelines,
		PostExamples: []string{},
		AppContext:   map[string]any{},
	}
}

// Clone returns a copy that shares no slices or maps with s.
// AppContext values are copied shallowly.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Messages = append([]Message{}, s.Messages...)
	c.PostExamples = append([]string{}, s.PostExamples...)
	c.AppContext = make(map[string]any, len(s.AppContext))
	maps.Copy(c.AppContext, s.AppContext)
	return &c
}

// LastMessage returns the most recent message, if any.
func (s *Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LastIsAssistant is the turn termination predicate.
func (s *Session) LastIsAssistant() bool {
	m, ok := s.LastMessage()
	return ok && m.Role == RoleAssistant
}

// Normalize repairs fields that older or foreign records may leave empty.
func (s *Session) Normalize() {
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	if s.PostExamples == nil {
		s.PostExamples = []string{}
	}
	if s.AppContext == nil {
		s.AppContext = map[string]any{}
	}
	s.CurrentTask = ParseTask(string(s.CurrentTask))
}

// SavedGuideline is the final text written by an explicit save action.
// It is independent of the live session draft.
type SavedGuideline struct {
	SessionID SessionID `json:"session_id"`
	Guideline string    `json:"guideline"`
	SavedAt   Timestamp `json:"saved_at"`
}
