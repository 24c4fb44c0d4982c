package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"linko/internal/action"
	"linko/internal/fileutil"
	"linko/internal/logging"
	"linko/internal/provider"
)

// ErrAlreadyRunning is returned when starting a session while one exists.
var ErrAlreadyRunning = errors.New("a session is already running")

// ErrNoSession is returned by operations that require a running session.
var ErrNoSession = errors.New("no session is running")

// Store persists the single session record as a JSON file.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Start creates a new session record. It fails if a session already exists.
func (s *Store) Start(write bool, providerID string) (*Record, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRunning
	}

	now := time.Now()
	rec := &Record{
		ID:               now.Format("20060102-150405"),
		StartedAt:        now,
		Write:            write,
		ActiveProviderID: providerID,
	}
	if err := s.save(rec); err != nil {
		return nil, err
	}
	logging.Info("session started", "id", rec.ID, "write", write, "provider", providerID)
	return rec, nil
}

// Load reads the current session record. A missing file means no session
// and returns (nil, nil).
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &rec, nil
}

// End removes the session record and returns it for the closing summary.
// Ending when no session exists is not an error.
func (s *Store) End() (*Record, error) {
	rec, err := s.Load()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove session: %w", err)
	}
	logging.Info("session ended", "id", rec.ID, "changes", len(rec.Changes))
	return rec, nil
}

// AddHistory appends one transcript entry.
func (s *Store) AddHistory(role, content string) error {
	return s.update(func(rec *Record) error {
		rec.History = append(rec.History, HistoryEntry{Role: role, Content: content, Time: time.Now()})
		return nil
	})
}

// AttachFile reads an existing regular file and stores its content on the
// session. Content is captured once; later edits to the file are not seen.
// Attaching the same path again refreshes the stored content.
func (s *Store) AttachFile(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot attach %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot attach %s: not a regular file", path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return fmt.Errorf("cannot attach %s: %d bytes exceeds the %d byte limit", path, info.Size(), maxSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot attach %s: %w", path, err)
	}
	if bytes.IndexByte(data, 0) != -1 {
		return fmt.Errorf("cannot attach %s: not a text file", path)
	}
	return s.update(func(rec *Record) error {
		if rec.Files == nil {
			rec.Files = make(map[string]string)
		}
		rec.Files[path] = string(data)
		return nil
	})
}

// SetActiveProvider switches the session's model after validating the id
// against the registry. The record is only persisted on success. An explicit
// switch pins the session to that provider; task routing no longer overrides it.
func (s *Store) SetActiveProvider(reg *provider.Registry, id string) error {
	if _, err := reg.Get(id); err != nil {
		return err
	}
	return s.update(func(rec *Record) error {
		rec.ActiveProviderID = id
		rec.ProviderPinned = true
		return nil
	})
}

// SetAutoExecute toggles unattended action execution for the session.
func (s *Store) SetAutoExecute(enabled bool) error {
	return s.update(func(rec *Record) error {
		rec.AutoExecute = enabled
		return nil
	})
}

// SetPendingActions replaces the pending batch awaiting approval.
func (s *Store) SetPendingActions(actions []action.Action) error {
	return s.update(func(rec *Record) error {
		rec.PendingActions = actions
		return nil
	})
}

// ClearPendingActions drops the pending batch without touching anything else.
func (s *Store) ClearPendingActions() error {
	return s.update(func(rec *Record) error {
		rec.PendingActions = nil
		return nil
	})
}

// RecordChange appends an applied change to the session summary.
func (s *Store) RecordChange(actionType, path string) error {
	return s.update(func(rec *Record) error {
		rec.Changes = append(rec.Changes, Change{Type: actionType, Path: path, Time: time.Now()})
		return nil
	})
}

// update applies fn to the current record and persists the result.
func (s *Store) update(fn func(*Record) error) error {
	rec, err := s.Load()
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNoSession
	}
	if err := fn(rec); err != nil {
		return err
	}
	return s.save(rec)
}

func (s *Store) save(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := fileutil.AtomicWrite(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
