package wiki

import (
	"sort"
	"strings"
	"sync"
)

// Match is one search hit inside a wiki file.
type Match struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// searchCache holds file contents between searches. The watcher invalidates
// it when anything under the root changes.
type searchCache struct {
	mu    sync.Mutex
	files map[string]string
	valid bool
}

func newSearchCache() *searchCache {
	return &searchCache{files: make(map[string]string)}
}

func (c *searchCache) invalidate() {
	c.mu.Lock()
	c.files = make(map[string]string)
	c.valid = false
	c.mu.Unlock()
}

// Search scans all markdown files for a case-insensitive substring and
// returns matching lines, capped at the list limit. File contents are
// cached until the watcher sees a change.
func (w *Wiki) Search(query string) ([]Match, error) {
	if query == "" {
		return nil, nil
	}

	if err := w.fillCache(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)

	w.cache.mu.Lock()
	defer w.cache.mu.Unlock()

	paths := make([]string, 0, len(w.cache.files))
	for p := range w.cache.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []Match
	for _, p := range paths {
		for i, line := range strings.Split(w.cache.files[p], "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				out = append(out, Match{Path: p, Line: i + 1, Text: strings.TrimSpace(line)})
				if w.listLimit > 0 && len(out) >= w.listLimit {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

// fillCache loads all readable markdown files into the cache if stale.
// The index covers the whole tree regardless of the list limit.
func (w *Wiki) fillCache() error {
	w.cache.mu.Lock()
	valid := w.cache.valid
	w.cache.mu.Unlock()
	if valid {
		return nil
	}

	files, err := w.glob("**/*.md", 0)
	if err != nil {
		return err
	}

	loaded := make(map[string]string, len(files))
	for _, f := range files {
		content, err := w.ReadFile(f)
		if err != nil {
			continue
		}
		loaded[f] = content
	}

	w.cache.mu.Lock()
	w.cache.files = loaded
	w.cache.valid = true
	w.cache.mu.Unlock()
	return nil
}
