package session

import (
	"time"

	"linko/internal/action"
)

// Record is the persisted state of a wiki session. One record exists at a
// time; starting a new session requires ending the previous one.
type Record struct {
	ID               string         `json:"id"`
	StartedAt        time.Time      `json:"started_at"`
	Write            bool           `json:"write"`
	ActiveProviderID string         `json:"active_provider_id"`
	ProviderPinned   bool           `json:"provider_pinned,omitempty"`
	AutoExecute      bool           `json:"auto_execute"`
	History          []HistoryEntry `json:"history,omitempty"`
	// Files maps an attached path to its content as read at attach time.
	Files          map[string]string `json:"files,omitempty"`
	PendingActions []action.Action   `json:"pending_actions,omitempty"`
	Changes        []Change          `json:"changes,omitempty"`
}

// HistoryEntry is one exchange in the session transcript.
type HistoryEntry struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Change records an applied file operation for the session summary.
type Change struct {
	Type string    `json:"type"`
	Path string    `json:"path"`
	Time time.Time `json:"time"`
}
