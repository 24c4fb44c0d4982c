package action

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"linko/internal/fileutil"
	"linko/internal/logging"
)

// ErrReadOnly is returned when a session without write access tries to
// apply actions.
var ErrReadOnly = errors.New("session is read-only")

// ErrDeclined is returned when the user declines the confirmation prompt.
var ErrDeclined = errors.New("actions declined")

// ConfirmFunc asks the user to approve a batch before execution.
type ConfirmFunc func(actions []Action) (bool, error)

// Engine validates, confirms and executes action batches against the wiki.
type Engine struct {
	validator   *Validator
	writeMode   bool
	autoExecute bool
	confirm     ConfirmFunc
}

// NewEngine builds an engine. confirm may be nil only when autoExecute is
// set, since batches containing deletes always prompt.
func NewEngine(v *Validator, writeMode, autoExecute bool, confirm ConfirmFunc) *Engine {
	return &Engine{
		validator:   v,
		writeMode:   writeMode,
		autoExecute: autoExecute,
		confirm:     confirm,
	}
}

// Apply validates the whole batch up front, gates it on confirmation and
// then executes in order. Validation is all-or-nothing; execution is
// best-effort with a Result per action.
func (e *Engine) Apply(actions []Action) ([]Result, error) {
	if len(actions) == 0 {
		return nil, ErrNoPending
	}
	if err := e.validator.ValidateAll(actions); err != nil {
		return nil, err
	}
	if !e.writeMode {
		return nil, ErrReadOnly
	}

	if e.needsConfirmation(actions) {
		if e.confirm == nil {
			return nil, ErrDeclined
		}
		ok, err := e.confirm(actions)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeclined
		}
	}

	results := make([]Result, 0, len(actions))
	for _, a := range actions {
		res := Result{Action: a, OK: true}
		if err := e.execute(a); err != nil {
			res.OK = false
			res.Err = err.Error()
			logging.Error("action failed", "action", a.String(), "error", err)
		} else {
			logging.Info("action applied", "action", a.String())
		}
		results = append(results, res)
	}
	return results, nil
}

// needsConfirmation decides whether to prompt. Auto-execute skips the prompt
// except for batches that delete anything.
func (e *Engine) needsConfirmation(actions []Action) bool {
	if !e.autoExecute {
		return true
	}
	for _, a := range actions {
		if a.Type == TypeDelete {
			return true
		}
	}
	return false
}

func (e *Engine) execute(a Action) error {
	abs := e.validator.resolve(a.Path)
	switch a.Type {
	case TypeWrite, TypeEdit:
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return err
		}
		return fileutil.AtomicWriteString(abs, a.Content, 0o644)
	case TypeDelete:
		if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return errors.New("unknown action type")
}
