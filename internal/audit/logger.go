package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Logger keeps a per-session trail of applied wiki actions as a JSON file
// under <configDir>/audit/.
type Logger struct {
	configDir  string
	sessionID  string
	maxEntries int
	entries    []*Entry
	mu         sync.RWMutex
	wg         sync.WaitGroup
	enabled    bool
}

// NewLogger creates an audit logger for the given session. A disabled
// logger accepts calls and does nothing.
func NewLogger(configDir, sessionID string, enabled bool, maxEntries int) (*Logger, error) {
	if !enabled {
		return &Logger{enabled: false}, nil
	}

	auditDir := filepath.Join(configDir, "audit")
	if err := os.MkdirAll(auditDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	l := &Logger{
		configDir:  configDir,
		sessionID:  sessionID,
		maxEntries: maxEntries,
		entries:    make([]*Entry, 0),
		enabled:    true,
	}

	// Load failures are non-fatal, start fresh
	if err := l.load(); err != nil {
		l.entries = make([]*Entry, 0)
	}

	return l, nil
}

// Log records an entry and persists asynchronously.
func (l *Logger) Log(entry *Entry) {
	if !l.enabled || entry == nil {
		return
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if l.maxEntries > 0 && len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.save()
	}()
}

// Recent returns the most recent n entries, newest first.
func (l *Logger) Recent(n int) []*Entry {
	if !l.enabled || n <= 0 {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]*Entry, n)
	for i := 0; i < n; i++ {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out
}

// Len returns the number of entries.
func (l *Logger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Flush waits for pending saves. Call before shutdown.
func (l *Logger) Flush() {
	l.wg.Wait()
}

func (l *Logger) filePath() string {
	return filepath.Join(l.configDir, "audit", l.sessionID+".json")
}

func (l *Logger) load() error {
	data, err := os.ReadFile(l.filePath())
	if err != nil {
		return err
	}
	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	l.entries = entries
	return nil
}

func (l *Logger) save() error {
	l.mu.RLock()
	data, err := json.MarshalIndent(l.entries, "", "  ")
	l.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(l.filePath(), data, 0600)
}
