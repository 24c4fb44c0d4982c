package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry records one wiki action with where it came from.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Type      string    `json:"type"`
	Path      string    `json:"path"`
	Source    string    `json:"source"` // "prompt", "auto", "apply"
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// NewEntry creates an entry with a generated ID and timestamp.
func NewEntry(sessionID, actionType, path, source string) *Entry {
	return &Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		SessionID: sessionID,
		Type:      actionType,
		Path:      path,
		Source:    source,
		Success:   true,
	}
}

// Fail marks the entry as a failed action.
func (e *Entry) Fail(err string) *Entry {
	e.Success = false
	e.Error = err
	return e
}
