package action

import (
	"errors"
	"fmt"
)

// ErrNoPending is returned when apply or reject is called without a
// pending action batch.
var ErrNoPending = errors.New("no pending actions")

// PathError reports a path that escapes or leaves the wiki root.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// TargetIsDirectoryError reports a file action aimed at an existing directory.
type TargetIsDirectoryError struct {
	Path string
}

func (e *TargetIsDirectoryError) Error() string {
	return fmt.Sprintf("target %q is a directory", e.Path)
}

// ContentTooLargeError reports action content over the configured limit.
type ContentTooLargeError struct {
	Path string
	Size int
	Max  int
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("content for %q is %d chars, limit is %d", e.Path, e.Size, e.Max)
}
