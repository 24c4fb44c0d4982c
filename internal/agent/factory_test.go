package agent

import (
	"context"
	"errors"
	"testing"

	"linko/internal/provider"
	"linko/internal/router"
	"linko/internal/session"
)

func testRegistry(t *testing.T) *provider.Registry {
	t.Helper()
	reg, err := provider.LoadFiles("")
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestCreateMergesAndValidatesSettings(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	reg := testRegistry(t)

	a, err := Create(context.Background(), reg, "openai-gpt5-text", map[string]any{"temperature": 0.1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, _ := a.Settings()["temperature"].(float64); got != 0.1 {
		t.Errorf("temperature = %v, want 0.1 override", a.Settings()["temperature"])
	}
	if _, ok := a.Settings()["top_p"]; !ok {
		t.Error("default top_p lost in merge")
	}
}

func TestCreateValidatesBeforeCredential(t *testing.T) {
	// No API key in the environment: an invalid settings combination must
	// surface as a SettingsError, not a missing credential.
	t.Setenv("OPENAI_API_KEY", "")
	reg := testRegistry(t)

	_, err := Create(context.Background(), reg, "openai-gpt5-reasoning", map[string]any{"temperature": 0.5})
	var setErr *provider.SettingsError
	if !errors.As(err, &setErr) {
		t.Fatalf("expected SettingsError, got %v", err)
	}
}

func TestCreateMissingCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	reg := testRegistry(t)

	_, err := Create(context.Background(), reg, "openai-gpt5-text", nil)
	var credErr *provider.CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected CredentialError, got %v", err)
	}
}

func TestCreateUnknownProvider(t *testing.T) {
	reg := testRegistry(t)
	_, err := Create(context.Background(), reg, "no-such-provider", nil)
	var nfErr *provider.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCreateOllamaNeedsNoCredential(t *testing.T) {
	reg := testRegistry(t)
	a, err := Create(context.Background(), reg, "ollama-local", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ProviderID() != "ollama-local" {
		t.Errorf("provider = %q", a.ProviderID())
	}
}

func TestCreateForSession(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	reg := testRegistry(t)

	a, err := CreateForSession(context.Background(), reg, nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ProviderID() != reg.DefaultID() {
		t.Errorf("nil session should use default, got %q", a.ProviderID())
	}

	rec := &session.Record{ActiveProviderID: "anthropic-sonnet-text"}
	a, err = CreateForSession(context.Background(), reg, rec, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ProviderID() != "anthropic-sonnet-text" {
		t.Errorf("provider = %q, want session's active provider", a.ProviderID())
	}
}

func TestCreateForTask(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	reg := testRegistry(t)

	a, task, err := CreateForTask(context.Background(), reg, "Generate tags for this article")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task != router.TaskTags {
		t.Errorf("task = %q, want tags", task)
	}
	if a.ProviderID() != "openai-gpt5-nano-text" {
		t.Errorf("provider = %q, want openai-gpt5-nano-text", a.ProviderID())
	}
}
