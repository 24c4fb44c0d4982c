package action

import (
	"encoding/json"
	"fmt"
)

// Type identifies what an action does to a wiki file.
type Type string

const (
	TypeWrite  Type = "write"
	TypeEdit   Type = "edit"
	TypeDelete Type = "delete"
)

// UnmarshalJSON rejects unknown action types at decode time so a malformed
// model response never reaches validation as a zero value.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Type(s) {
	case TypeWrite, TypeEdit, TypeDelete:
		*t = Type(s)
		return nil
	}
	return fmt.Errorf("unknown action type %q", s)
}

// Action is a single proposed file operation inside the wiki root.
type Action struct {
	Type    Type   `json:"type"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
}

// String renders the action for logs and confirmation prompts.
func (a Action) String() string {
	if a.Type == TypeDelete {
		return fmt.Sprintf("%s %s", a.Type, a.Path)
	}
	return fmt.Sprintf("%s %s (%d bytes)", a.Type, a.Path, len(a.Content))
}

// Result reports the outcome of executing one action.
type Result struct {
	Action Action `json:"action"`
	OK     bool   `json:"ok"`
	Err    string `json:"error,omitempty"`
}
