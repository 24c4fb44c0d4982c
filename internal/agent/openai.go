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

const openaiDefaultBase = "https://api.openai.com"

// openaiBackend talks to the OpenAI chat completions API.
type openaiBackend struct {
	cfg        *provider.Config
	settings   map[string]any
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newOpenAIBackend(cfg *provider.Config, settings map[string]any, apiKey string) *openaiBackend {
	base := cfg.APIBase
	if base == "" {
		base = openaiDefaultBase
	}
	return &openaiBackend{
		cfg:        cfg,
		settings:   settings,
		apiKey:     apiKey,
		baseURL:    base,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (b *openaiBackend) complete(ctx context.Context, system, prompt string) (string, error) {
	body := map[string]any{
		"model": b.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	if b.cfg.Reasoning {
		if effort, ok := stringSetting(b.settings, "reasoning_effort"); ok {
			body["reasoning_effort"] = effort
		}
	} else {
		if t, ok := floatSetting(b.settings, "temperature"); ok {
			body["temperature"] = t
		}
		if p, ok := floatSetting(b.settings, "top_p"); ok {
			body["top_p"] = p
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

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
		return "", fmt.Errorf("openai: status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("openai: failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return out.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
