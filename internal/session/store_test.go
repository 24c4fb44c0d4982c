package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"linko/internal/action"
	"linko/internal/provider"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestStartLoadEnd(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec != nil {
		t.Fatal("expected no session before start")
	}

	started, err := s.Start(true, "openai-gpt5-text")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.ID == "" {
		t.Error("session id is empty")
	}
	if !started.Write {
		t.Error("write flag lost")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || loaded.ID != started.ID {
		t.Fatalf("loaded = %+v, want id %s", loaded, started.ID)
	}

	if _, err := s.Start(true, "openai-gpt5-text"); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	ended, err := s.End()
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended == nil || ended.ID != started.ID {
		t.Fatalf("ended = %+v, want id %s", ended, started.ID)
	}

	// Ending again is a no-op
	ended, err = s.End()
	if err != nil {
		t.Fatalf("second end: %v", err)
	}
	if ended != nil {
		t.Error("second end should return nil record")
	}
}

func TestUpdatesRequireSession(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddHistory("user", "hello"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := s.SetAutoExecute(true); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestHistoryAndChanges(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Start(true, "openai-gpt5-text"); err != nil {
		t.Fatal(err)
	}

	if err := s.AddHistory("user", "create a docker page"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddHistory("assistant", "done"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordChange("write", "infra/docker.md"); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.History) != 2 {
		t.Errorf("history len = %d, want 2", len(rec.History))
	}
	if rec.History[0].Role != "user" || rec.History[1].Role != "assistant" {
		t.Errorf("history roles wrong: %+v", rec.History)
	}
	if len(rec.Changes) != 1 || rec.Changes[0].Path != "infra/docker.md" {
		t.Errorf("changes wrong: %+v", rec.Changes)
	}
}

func TestAttachFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Start(false, "openai-gpt5-text"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(file, []byte("# Notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.AttachFile(file, 1<<20); err != nil {
		t.Fatalf("attach: %v", err)
	}

	rec, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Files[file] != "# Notes" {
		t.Errorf("stored content = %q, want %q", rec.Files[file], "# Notes")
	}

	// Content is captured at attach time; editing the file afterwards must
	// not change the session.
	if err := os.WriteFile(file, []byte("# Edited"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec, _ = s.Load()
	if rec.Files[file] != "# Notes" {
		t.Errorf("content changed without re-attaching: %q", rec.Files[file])
	}

	// Re-attaching refreshes the stored content without duplicating.
	if err := s.AttachFile(file, 1<<20); err != nil {
		t.Fatalf("second attach: %v", err)
	}
	rec, _ = s.Load()
	if len(rec.Files) != 1 || rec.Files[file] != "# Edited" {
		t.Errorf("files = %v, want one entry with refreshed content", rec.Files)
	}

	if err := s.AttachFile(filepath.Join(dir, "missing.md"), 1<<20); err == nil {
		t.Error("expected error attaching missing file")
	}
	if err := s.AttachFile(dir, 1<<20); err == nil {
		t.Error("expected error attaching a directory")
	}
}

func TestAttachFileBounds(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Start(false, "openai-gpt5-text"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	big := filepath.Join(dir, "big.md")
	if err := os.WriteFile(big, []byte(strings.Repeat("a", 32)), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.AttachFile(big, 10); err == nil {
		t.Error("expected error for file over the size limit")
	}

	bin := filepath.Join(dir, "img.md")
	if err := os.WriteFile(bin, []byte{0x89, 0x50, 0x00, 0x47}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.AttachFile(bin, 1<<20); err == nil {
		t.Error("expected error for binary file")
	}

	rec, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Files) != 0 {
		t.Errorf("rejected attachments were stored: %v", rec.Files)
	}
}

func TestSetActiveProviderValidates(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Start(true, "openai-gpt5-text"); err != nil {
		t.Fatal(err)
	}

	reg, err := provider.LoadFiles("")
	if err != nil {
		t.Fatal(err)
	}

	var nfErr *provider.NotFoundError
	if err := s.SetActiveProvider(reg, "no-such-model"); !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	rec, _ := s.Load()
	if rec.ActiveProviderID != "openai-gpt5-text" {
		t.Errorf("provider changed despite validation failure: %s", rec.ActiveProviderID)
	}
	if rec.ProviderPinned {
		t.Error("failed switch must not pin the provider")
	}

	if err := s.SetActiveProvider(reg, "anthropic-sonnet-text"); err != nil {
		t.Fatalf("set provider: %v", err)
	}
	rec, _ = s.Load()
	if rec.ActiveProviderID != "anthropic-sonnet-text" {
		t.Errorf("provider = %s, want anthropic-sonnet-text", rec.ActiveProviderID)
	}
	if !rec.ProviderPinned {
		t.Error("explicit switch should pin the session's provider")
	}
}

func TestPendingActionsRoundtrip(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Start(true, "openai-gpt5-text"); err != nil {
		t.Fatal(err)
	}

	batch := []action.Action{
		{Type: action.TypeWrite, Path: "a.md", Content: "x"},
		{Type: action.TypeDelete, Path: "b.md"},
	}
	if err := s.SetPendingActions(batch); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.PendingActions) != 2 {
		t.Fatalf("pending = %d, want 2", len(rec.PendingActions))
	}
	if rec.PendingActions[1].Type != action.TypeDelete {
		t.Errorf("pending[1].Type = %q, want delete", rec.PendingActions[1].Type)
	}

	if err := s.ClearPendingActions(); err != nil {
		t.Fatal(err)
	}
	rec, _ = s.Load()
	if len(rec.PendingActions) != 0 {
		t.Errorf("pending not cleared: %v", rec.PendingActions)
	}
}
