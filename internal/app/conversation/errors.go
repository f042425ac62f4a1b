package conversation

import (
	"fmt"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

// TurnError reports a failed turn. The session was not modified.
type TurnError struct {
	Op        string
	SessionID domain.SessionID
	Err       error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %s for session %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}
