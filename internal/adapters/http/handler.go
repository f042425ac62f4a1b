package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/knbl-ai/content-planner-agent/internal/app/conversation"
	"github.com/knbl-ai/content-planner-agent/internal/app/guideline"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

const maxBodyBytes = 1 << 20

type Server struct {
	conv       *conversation.Service
	guidelines *guideline.Service
}

func NewServer(conv *conversation.Service, guidelines *guideline.Service) http.Handler {
	s := &Server{conv: conv, guidelines: guidelines}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /api/message, /api/chat → POST: process one turn
	mux.HandleFunc("/api/message", s.handleMessage)
	mux.HandleFunc("/api/chat", s.handleMessage)

	// /api/guideline      → POST: save final guideline
	// /api/guideline/{id} → GET: saved guideline
	mux.HandleFunc("/api/guideline", s.handleSaveGuideline)
	mux.HandleFunc("/api/guideline/", s.handleGuidelineWithID)

	// /api/post-examples/{id} → GET
	mux.HandleFunc("/api/post-examples/", s.handlePostExamples)

	// /api/session/{id} → GET: draft panel view, DELETE: reset
	mux.HandleFunc("/api/session/", s.handleSessionWithID)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type messageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type messageResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type saveGuidelineRequest struct {
	// Guideline may be empty but must be present.
	Guideline *string `json:"guideline"`
	SessionID string `json:"session_id"`
}

type saveGuidelineResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type guidelineResponse struct {
	Guideline string `json:"guideline"`
	SessionID string `json:"session_id"`
}

type postExamplesResponse struct {
	PostExamples []string `json:"post_examples"`
	SessionID    string   `json:"session_id"`
}

type sessionMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	SessionID      string           `json:"session_id"`
	GuidelineDraft string           `json:"guideline_draft"`
	CurrentTask    string           `json:"current_task"`
	PostExamples   []string         `json:"post_examples"`
	Messages       []sessionMessage `json:"messages"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type errorResponse struct {
	Error     string `json:"error"`
	SessionID string `json:"session_id,omitempty"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

// idFromPath returns the single path segment after prefix.
func idFromPath(path, prefix string) (domain.SessionID, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return domain.SessionID(id), true
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /api/guideline/{id}
func (s *Server) handleGuidelineWithID(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r.URL.Path, "/api/guideline/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetGuideline(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

// /api/session/{id}
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r.URL.Path, "/api/session/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetSession(w, r, id)
	case http.MethodDelete:
		s.handleResetSession(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return
	}

	out, err := s.conv.ProcessTurn(r.Context(), conversation.ProcessTurnInput{
		SessionID: domain.SessionID(req.SessionID),
		Text:      req.Message,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			badRequest(w, err.Error())
			return
		}
		observability.LoggerFromContext(r.Context()).Error("message failed", "session_id", req.SessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     "failed to process message",
			SessionID: req.SessionID,
		})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Response:  out.Reply,
		SessionID: string(out.SessionID),
	})
}

func (s *Server) handleSaveGuideline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req saveGuidelineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" || req.Guideline == nil {
		badRequest(w, "guideline and session_id are required")
		return
	}

	if err := s.guidelines.Save(r.Context(), domain.SessionID(req.SessionID), *req.Guideline); err != nil {
		writeJSON(w, http.StatusInternalServerError, saveGuidelineResponse{
			Success:   false,
			Message:   "failed to save guideline",
			SessionID: req.SessionID,
		})
		return
	}

	writeJSON(w, http.StatusOK, saveGuidelineResponse{
		Success:   true,
		Message:   "Guideline saved successfully",
		SessionID: req.SessionID,
	})
}

func (s *Server) handleGetGuideline(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	text, ok, err := s.guidelines.Get(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:     "guideline not found",
			SessionID: string(id),
		})
		return
	}

	writeJSON(w, http.StatusOK, guidelineResponse{
		Guideline: text,
		SessionID: string(id),
	})
}

func (s *Server) handlePostExamples(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r.URL.Path, "/api/post-examples/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	examples, err := s.conv.PostExamples(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postExamplesResponse{
		PostExamples: examples,
		SessionID:    string(id),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, err := s.conv.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{
				Error:     "session not found",
				SessionID: string(id),
			})
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.conv.Reset(r.Context(), id); err != nil {
		internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	msgs := make([]sessionMessage, 0, len(s.Messages))
	for _, m := range s.Messages {
		msgs = append(msgs, sessionMessage{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	examples := s.PostExamples
	if examples == nil {
		examples = []string{}
	}

	return sessionResponse{
		SessionID:      string(s.ID),
		GuidelineDraft: s.GuidelineDraft,
		CurrentTask:    string(s.CurrentTask),
		PostExamples:   examples,
		Messages:       msgs,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error: "method not allowed",
	})
}
