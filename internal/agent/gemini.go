package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"linko/internal/provider"
)

// geminiBackend talks to the Gemini API via the genai SDK.
type geminiBackend struct {
	cfg      *provider.Config
	settings map[string]any
	client   *genai.Client
}

func newGeminiBackend(ctx context.Context, cfg *provider.Config, settings map[string]any, apiKey string) (*geminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &geminiBackend{cfg: cfg, settings: settings, client: client}, nil
}

func (b *geminiBackend) complete(ctx context.Context, system, prompt string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	if t, ok := floatSetting(b.settings, "temperature"); ok {
		temp := float32(t)
		genCfg.Temperature = &temp
	}
	if p, ok := floatSetting(b.settings, "top_p"); ok {
		topP := float32(p)
		genCfg.TopP = &topP
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.cfg.Model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}
