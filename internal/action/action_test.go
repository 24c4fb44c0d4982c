package action

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTypeUnmarshalRejectsUnknown(t *testing.T) {
	var a Action
	err := json.Unmarshal([]byte(`{"type":"execute","path":"x.md"}`), &a)
	if err == nil {
		t.Fatal("expected error for unknown action type")
	}

	if err := json.Unmarshal([]byte(`{"type":"write","path":"x.md","content":"hi"}`), &a); err != nil {
		t.Fatalf("valid action failed to decode: %v", err)
	}
	if a.Type != TypeWrite {
		t.Errorf("type = %q, want write", a.Type)
	}
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	v := NewValidator(root, 50000)

	tests := []struct {
		name    string
		a       Action
		wantErr any
	}{
		{"ok relative", Action{Type: TypeWrite, Path: "docker.md", Content: "x"}, nil},
		{"ok nested", Action{Type: TypeWrite, Path: "infra/docker.md", Content: "x"}, nil},
		{"empty path", Action{Type: TypeWrite, Path: ""}, &PathError{}},
		{"parent escape", Action{Type: TypeWrite, Path: "../outside.md"}, &PathError{}},
		{"embedded escape", Action{Type: TypeWrite, Path: "notes/../../outside.md"}, &PathError{}},
		{"double dot in name", Action{Type: TypeWrite, Path: "notes..md", Content: "x"}, &PathError{}},
		{"absolute", Action{Type: TypeWrite, Path: "/etc/passwd"}, &PathError{}},
		{"directory target", Action{Type: TypeWrite, Path: "notes"}, &TargetIsDirectoryError{}},
		{"delete directory target", Action{Type: TypeDelete, Path: "notes"}, &TargetIsDirectoryError{}},
		{"content at limit", Action{Type: TypeWrite, Path: "big.md", Content: strings.Repeat("a", 50000)}, nil},
		{"content over limit", Action{Type: TypeWrite, Path: "big.md", Content: strings.Repeat("a", 50001)}, &ContentTooLargeError{}},
		{"delete with oversized content", Action{Type: TypeDelete, Path: "big.md", Content: strings.Repeat("a", 60000)}, &ContentTooLargeError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.a)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			switch tt.wantErr.(type) {
			case *PathError:
				var pe *PathError
				if !errors.As(err, &pe) {
					t.Errorf("expected PathError, got %T: %v", err, err)
				}
			case *TargetIsDirectoryError:
				var de *TargetIsDirectoryError
				if !errors.As(err, &de) {
					t.Errorf("expected TargetIsDirectoryError, got %T: %v", err, err)
				}
			case *ContentTooLargeError:
				var ce *ContentTooLargeError
				if !errors.As(err, &ce) {
					t.Errorf("expected ContentTooLargeError, got %T: %v", err, err)
				}
			}
		})
	}
}

func TestApplyExecutesBatch(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.md")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	confirmed := false
	e := NewEngine(NewValidator(root, 50000), true, false, func(actions []Action) (bool, error) {
		confirmed = true
		return true, nil
	})

	results, err := e.Apply([]Action{
		{Type: TypeWrite, Path: "infra/docker.md", Content: "# Docker\n"},
		{Type: TypeEdit, Path: "old.md", Content: "new"},
		{Type: TypeDelete, Path: "old-gone.md"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !confirmed {
		t.Error("expected confirmation prompt")
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if !r.OK {
			t.Errorf("action %s failed: %s", r.Action.String(), r.Err)
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "infra", "docker.md"))
	if err != nil {
		t.Fatalf("written file missing: %v", err)
	}
	if string(data) != "# Docker\n" {
		t.Errorf("content = %q", data)
	}
	if data, _ := os.ReadFile(existing); string(data) != "new" {
		t.Errorf("edit left content %q", data)
	}
}

func TestApplyAllOrNothingValidation(t *testing.T) {
	root := t.TempDir()
	e := NewEngine(NewValidator(root, 50000), true, true, nil)

	_, err := e.Apply([]Action{
		{Type: TypeWrite, Path: "good.md", Content: "x"},
		{Type: TypeWrite, Path: "../bad.md", Content: "x"},
	})
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PathError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "good.md")); !os.IsNotExist(statErr) {
		t.Error("valid action was executed despite invalid batch")
	}
}

func TestApplyReadOnly(t *testing.T) {
	e := NewEngine(NewValidator(t.TempDir(), 50000), false, true, nil)
	_, err := e.Apply([]Action{{Type: TypeWrite, Path: "x.md", Content: "x"}})
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestApplyDeclined(t *testing.T) {
	root := t.TempDir()
	e := NewEngine(NewValidator(root, 50000), true, false, func([]Action) (bool, error) {
		return false, nil
	})
	_, err := e.Apply([]Action{{Type: TypeWrite, Path: "x.md", Content: "x"}})
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "x.md")); !os.IsNotExist(statErr) {
		t.Error("declined action was executed")
	}
}

func TestAutoExecuteSkipsPromptExceptDeletes(t *testing.T) {
	root := t.TempDir()
	prompted := false
	confirm := func([]Action) (bool, error) {
		prompted = true
		return true, nil
	}

	e := NewEngine(NewValidator(root, 50000), true, true, confirm)
	if _, err := e.Apply([]Action{{Type: TypeWrite, Path: "a.md", Content: "x"}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if prompted {
		t.Error("auto-execute should skip the prompt for writes")
	}

	if _, err := e.Apply([]Action{
		{Type: TypeWrite, Path: "b.md", Content: "x"},
		{Type: TypeDelete, Path: "a.md"},
	}); err != nil {
		t.Fatalf("apply with delete: %v", err)
	}
	if !prompted {
		t.Error("batches containing a delete must always prompt")
	}
}

func TestDeleteMissingFileIsNoop(t *testing.T) {
	e := NewEngine(NewValidator(t.TempDir(), 50000), true, true, nil)
	results, err := e.Apply([]Action{{Type: TypeDelete, Path: "never-existed.md"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !results[0].OK {
		t.Errorf("deleting a missing file should succeed, got %s", results[0].Err)
	}
}

func TestApplyEmptyBatch(t *testing.T) {
	e := NewEngine(NewValidator(t.TempDir(), 50000), true, true, nil)
	if _, err := e.Apply(nil); !errors.Is(err, ErrNoPending) {
		t.Fatalf("expected ErrNoPending, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "page.md"), []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	e := NewEngine(NewValidator(root, 50000), true, true, nil)

	out, err := e.Preview(Action{Type: TypeEdit, Path: "page.md", Content: "one\nthree\n"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "- two") || !strings.Contains(out, "+ three") {
		t.Errorf("diff missing expected lines:\n%s", out)
	}

	out, err = e.Preview(Action{Type: TypeWrite, Path: "new.md", Content: "hello\n"})
	if err != nil {
		t.Fatalf("preview new file: %v", err)
	}
	if !strings.Contains(out, "+ hello") {
		t.Errorf("new file diff should be all additions:\n%s", out)
	}

	out, err = e.Preview(Action{Type: TypeEdit, Path: "page.md", Content: "one\ntwo\n"})
	if err != nil {
		t.Fatalf("preview unchanged: %v", err)
	}
	if out != "" {
		t.Errorf("unchanged content should yield empty preview, got %q", out)
	}
}
