package agent

import (
	"context"
	"encoding/json"
	"strings"

	"linko/internal/action"
	"linko/internal/logging"
	"linko/internal/provider"
)

// systemPrompt pins the model to the structured reply contract. Every
// backend sends it as the system message.
const systemPrompt = `You are a wiki assistant managing a markdown knowledge base.
Reply with a single JSON object and nothing else:
{
  "message": "short answer for the user",
  "options": [{"label": "...", "description": "..."}],
  "actions": [{"type": "write|edit|delete", "path": "relative/path.md", "content": "..."}]
}
"options" and "actions" may be empty. Paths are always relative to the wiki root.
Never propose actions outside the wiki. Prefer small, focused changes.`

// Option is a follow-up choice the model offers the user.
type Option struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Result is the structured reply of one agent run.
type Result struct {
	Message string          `json:"message"`
	Options []Option        `json:"options,omitempty"`
	Actions []action.Action `json:"actions,omitempty"`
}

// backend sends one completion and returns the raw model text.
type backend interface {
	complete(ctx context.Context, system, prompt string) (string, error)
}

// Agent binds a provider config and resolved settings to a backend.
type Agent struct {
	cfg      *provider.Config
	settings map[string]any
	backend  backend
}

// ProviderID returns the id of the provider this agent runs on.
func (a *Agent) ProviderID() string {
	return a.cfg.ID
}

// Settings returns the resolved settings the agent sends with each request.
func (a *Agent) Settings() map[string]any {
	return a.settings
}

// Run sends the prompt and decodes the structured reply.
func (a *Agent) Run(ctx context.Context, prompt string) (*Result, error) {
	logging.Debug("running agent", "provider", a.cfg.ID, "model", a.cfg.Model)

	raw, err := a.backend.complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseResult(a.cfg.ID, raw)
}

// parseResult decodes the model reply. Code fences around the JSON are
// tolerated, anything else is a ResponseError.
func parseResult(providerID, raw string) (*Result, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, &ResponseError{ProviderID: providerID, Reason: err.Error()}
	}
	if res.Message == "" && len(res.Actions) == 0 {
		return nil, &ResponseError{ProviderID: providerID, Reason: "reply has neither message nor actions"}
	}
	return &res, nil
}

// floatSetting reads a numeric setting, accepting both float64 (from JSON)
// and int literals.
func floatSetting(settings map[string]any, key string) (float64, bool) {
	v, ok := settings[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// stringSetting reads a string setting.
func stringSetting(settings map[string]any, key string) (string, bool) {
	v, ok := settings[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
