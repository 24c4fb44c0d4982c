package agent

import (
	"context"

	"linko/internal/logging"
	"linko/internal/provider"
	"linko/internal/router"
	"linko/internal/session"
)

// Create builds an agent for a provider. Custom settings override the
// catalog defaults key by key and are validated before any credential is
// touched, so a bad settings combination never leaks a missing-key error.
func Create(ctx context.Context, reg *provider.Registry, providerID string, customSettings map[string]any) (*Agent, error) {
	cfg, err := reg.Get(providerID)
	if err != nil {
		return nil, err
	}

	settings := mergeSettings(cfg.DefaultSettings, customSettings)
	if err := reg.ValidateSettings(providerID, settings); err != nil {
		return nil, err
	}

	apiKey, err := reg.Credential(providerID)
	if err != nil {
		return nil, err
	}

	var b backend
	switch cfg.Provider {
	case "openai":
		b = newOpenAIBackend(cfg, settings, apiKey)
	case "anthropic":
		b = newAnthropicBackend(cfg, settings, apiKey)
	case "gemini":
		b, err = newGeminiBackend(ctx, cfg, settings, apiKey)
		if err != nil {
			return nil, err
		}
	case "ollama":
		b, err = newOllamaBackend(cfg, settings)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &UnsupportedProviderError{Family: cfg.Provider}
	}

	logging.Debug("agent created", "provider", cfg.ID, "family", cfg.Provider)
	return &Agent{cfg: cfg, settings: settings, backend: b}, nil
}

// CreateForSession builds an agent for the session's active provider,
// falling back to the registry default when none is set.
func CreateForSession(ctx context.Context, reg *provider.Registry, rec *session.Record, customSettings map[string]any) (*Agent, error) {
	id := reg.DefaultID()
	if rec != nil && rec.ActiveProviderID != "" {
		id = rec.ActiveProviderID
	}
	return Create(ctx, reg, id, customSettings)
}

// CreateForTask classifies the prompt and builds an agent on the routed
// provider with its catalog defaults.
func CreateForTask(ctx context.Context, reg *provider.Registry, prompt string) (*Agent, router.TaskType, error) {
	cfg, task := router.RouteAuto(reg, prompt)
	a, err := Create(ctx, reg, cfg.ID, nil)
	if err != nil {
		return nil, task, err
	}
	return a, task, nil
}

// mergeSettings overlays custom settings on the defaults without mutating
// either map.
func mergeSettings(defaults, custom map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(custom))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range custom {
		merged[k] = v
	}
	return merged
}
