package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"linko/internal/provider"
)

const anthropicDefaultBase = "https://api.anthropic.com"

// anthropicBackend talks to the Anthropic messages API.
type anthropicBackend struct {
	cfg        *provider.Config
	settings   map[string]any
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newAnthropicBackend(cfg *provider.Config, settings map[string]any, apiKey string) *anthropicBackend {
	base := cfg.APIBase
	if base == "" {
		base = anthropicDefaultBase
	}
	return &anthropicBackend{
		cfg:        cfg,
		settings:   settings,
		apiKey:     apiKey,
		baseURL:    base,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (b *anthropicBackend) complete(ctx context.Context, system, prompt string) (string, error) {
	body := map[string]any{
		"model":      b.cfg.Model,
		"max_tokens": 4096,
		"system":     system,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	if t, ok := floatSetting(b.settings, "temperature"); ok {
		body["temperature"] = t
	}
	if p, ok := floatSetting(b.settings, "top_p"); ok {
		body["top_p"] = p
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic: status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("anthropic: failed to parse response: %w", err)
	}
	for _, block := range out.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: no text content in response")
}
