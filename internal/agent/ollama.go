package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"linko/internal/provider"
)

const ollamaDefaultBase = "http://localhost:11434"

// ollamaBackend talks to a local Ollama server. No credential involved.
type ollamaBackend struct {
	cfg      *provider.Config
	settings map[string]any
	client   *api.Client
}

func newOllamaBackend(cfg *provider.Config, settings map[string]any) (*ollamaBackend, error) {
	base := cfg.APIBase
	if base == "" {
		base = ollamaDefaultBase
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid api_base %q: %w", base, err)
	}
	return &ollamaBackend{
		cfg:      cfg,
		settings: settings,
		client:   api.NewClient(u, http.DefaultClient),
	}, nil
}

func (b *ollamaBackend) complete(ctx context.Context, system, prompt string) (string, error) {
	options := make(map[string]any)
	if t, ok := floatSetting(b.settings, "temperature"); ok {
		options["temperature"] = t
	}
	if p, ok := floatSetting(b.settings, "top_p"); ok {
		options["top_p"] = p
	}

	stream := false
	req := &api.ChatRequest{
		Model: b.cfg.Model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Stream:  &stream,
		Format:  json.RawMessage(`"json"`),
		Options: options,
	}

	var out strings.Builder
	err := b.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("ollama: empty response")
	}
	return out.String(), nil
}
