package wiki

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrTooLarge marks files over the configured read bound.
var ErrTooLarge = errors.New("file too large")

// ErrBinaryFile marks files that do not look like text.
var ErrBinaryFile = errors.New("binary file")

// ErrOutsideRoot marks paths that escape the wiki root.
var ErrOutsideRoot = errors.New("path outside wiki root")

// Wiki provides read access to the markdown tree under a single root.
type Wiki struct {
	root        string
	maxFileSize int64
	listLimit   int
	cache       *searchCache
}

// New returns a wiki rooted at root. maxFileSize bounds single reads,
// listLimit caps listing and search results.
func New(root string, maxFileSize int64, listLimit int) *Wiki {
	return &Wiki{
		root:        root,
		maxFileSize: maxFileSize,
		listLimit:   listLimit,
		cache:       newSearchCache(),
	}
}

// Root returns the wiki root directory.
func (w *Wiki) Root() string {
	return w.root
}

// resolve maps a relative wiki path to an absolute one, rejecting escapes.
func (w *Wiki) resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, path)
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrOutsideRoot, path)
		}
	}
	return filepath.Join(w.root, filepath.FromSlash(path)), nil
}

// ReadFile returns the content of a wiki file. Files over the size bound or
// containing binary data are refused.
func (w *Wiki) ReadFile(path string) (string, error) {
	abs, err := w.resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.Size() > w.maxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, info.Size(), w.maxFileSize)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	if isBinary(data) {
		return "", fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}
	return string(data), nil
}

// ListFiles returns wiki paths matching a doublestar pattern, sorted and
// capped at the list limit. An empty pattern lists all markdown files.
func (w *Wiki) ListFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**/*.md"
	}
	return w.glob(pattern, w.listLimit)
}

// glob matches a pattern against the tree. limit 0 means unbounded.
func (w *Wiki) glob(pattern string, limit int) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(w.root), pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(filepath.Join(w.root, m))
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}

	sort.Strings(files)
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

// isBinary sniffs for a NUL byte in the leading section of the file.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
