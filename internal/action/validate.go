package action

import (
	"os"
	"path/filepath"
	"strings"
)

// Validator checks proposed actions against the wiki root and the
// configured content limit before anything touches the filesystem.
type Validator struct {
	root       string
	maxContent int
}

// NewValidator returns a validator rooted at the wiki directory.
func NewValidator(root string, maxContent int) *Validator {
	return &Validator{root: root, maxContent: maxContent}
}

// Validate checks a single action. Paths must stay relative and free of
// "..", the target may not be an existing directory, and any content the
// action carries is bounded regardless of its type.
func (v *Validator) Validate(a Action) error {
	if a.Path == "" {
		return &PathError{Path: a.Path, Reason: "path is empty"}
	}
	if filepath.IsAbs(a.Path) || strings.HasPrefix(a.Path, "/") {
		return &PathError{Path: a.Path, Reason: "absolute paths are not allowed"}
	}
	if strings.Contains(a.Path, "..") {
		return &PathError{Path: a.Path, Reason: `path must not contain ".."`}
	}

	abs := filepath.Join(v.root, filepath.FromSlash(a.Path))
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return &TargetIsDirectoryError{Path: a.Path}
	}

	if len(a.Content) > v.maxContent {
		return &ContentTooLargeError{Path: a.Path, Size: len(a.Content), Max: v.maxContent}
	}
	return nil
}

// ValidateAll checks a batch and fails on the first invalid action, so a
// batch is either fully applicable or not applied at all.
func (v *Validator) ValidateAll(actions []Action) error {
	for _, a := range actions {
		if err := v.Validate(a); err != nil {
			return err
		}
	}
	return nil
}

// resolve maps a validated relative path to its absolute location.
func (v *Validator) resolve(path string) string {
	return filepath.Join(v.root, filepath.FromSlash(path))
}
