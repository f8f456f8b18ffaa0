// Package configsync keeps one scalar remote setting in step with a local
// edit buffer: load it, let the user change it, save it back only when it
// actually differs from what the server holds.
package configsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bargainbaas/bargain-cli/internal/api"
)

var (
	// ErrNotLoaded is returned by Submit before a load has succeeded. An
	// unknown remote value is never overwritten blind.
	ErrNotLoaded = errors.New("configuration has not been loaded")

	// ErrSaveInProgress is returned by Submit while a save is in flight.
	ErrSaveInProgress = errors.New("a save is already in progress")

	// ErrInvalidValue wraps a validator rejection.
	ErrInvalidValue = errors.New("invalid value")
)

// Status messages shown next to the field.
const (
	MsgSaved = "Configuration saved."
)

// Status is the field's lifecycle state.
type Status int

const (
	Unloaded Status = iota
	Loading
	Loaded
	Dirty
	Saving
	Saved
	Errored
)

func (s Status) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	case Saved:
		return "saved"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Source reads and writes the remote value.
type Source interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
}

// Validator rejects a local value before it is sent.
type Validator func(value string) error

// Config wires a Field.
type Config struct {
	Source   Source
	Validate Validator

	// DebugFunc is an optional callback for debug logging
	DebugFunc func(format string, args ...any)
}

// State is a point-in-time copy of a Field.
type State struct {
	Remote  string
	Local   string
	Dirty   bool
	Status  Status
	Message string
	Loaded  bool
}

// CanSave reports whether the save affordance should be enabled.
func (s State) CanSave() bool {
	return s.Loaded && s.Status != Saving && s.Status != Loading
}

// Field is the load → edit → save state machine for one value.
type Field struct {
	src       Source
	validate  Validator
	debugFunc func(format string, args ...any)

	mu      sync.Mutex
	remote  string
	local   string
	loaded  bool
	status  Status
	message string
	loadGen uint64
}

// NewField returns an Unloaded field.
func NewField(cfg Config) *Field {
	return &Field{
		src:       cfg.Source,
		validate:  cfg.Validate,
		debugFunc: cfg.DebugFunc,
	}
}

func (f *Field) debug(format string, args ...any) {
	if f.debugFunc != nil {
		f.debugFunc(format, args...)
	}
}

// State returns a snapshot.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

func (f *Field) stateLocked() State {
	return State{
		Remote:  f.remote,
		Local:   f.local,
		Dirty:   f.local != f.remote,
		Status:  f.status,
		Message: f.message,
		Loaded:  f.loaded,
	}
}

// Load fetches the remote value. On success both remote and local take the
// fetched value so the field starts clean. On failure the field cannot be
// saved until a later Load succeeds. If another Load starts before this one
// returns, this result is dropped.
func (f *Field) Load(ctx context.Context) error {
	f.mu.Lock()
	f.loadGen++
	gen := f.loadGen
	f.loaded = false
	f.status = Loading
	f.message = ""
	f.mu.Unlock()

	value, err := f.src.Load(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.loadGen {
		return nil
	}
	if err != nil {
		f.status = Errored
		f.message = "Failed to load configuration: " + displayError(err)
		f.debug("load failed: %v", err)
		return err
	}
	f.remote = value
	f.local = value
	f.loaded = true
	f.status = Loaded
	return nil
}

// Edit replaces the local value. After a Saved or Errored outcome the status
// message is cleared. Before the first successful load the edit is kept but
// the status is left alone.
func (f *Field) Edit(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.local = value
	if !f.loaded || f.status == Saving || f.status == Loading {
		return
	}
	f.message = ""
	if f.local != f.remote {
		f.status = Dirty
	} else {
		f.status = Loaded
	}
}

// Submit saves the local value. A value equal to the remote one is a
// successful no-op and nothing is sent. On failure the local edit is kept.
// If the local value changed while the save was in flight, the field ends
// Dirty rather than Saved.
func (f *Field) Submit(ctx context.Context) (State, error) {
	f.mu.Lock()
	if !f.loaded {
		st := f.stateLocked()
		f.mu.Unlock()
		return st, ErrNotLoaded
	}
	if f.status == Saving {
		st := f.stateLocked()
		f.mu.Unlock()
		return st, ErrSaveInProgress
	}

	value := f.local
	if value == f.remote {
		f.status = Saved
		f.message = MsgSaved
		st := f.stateLocked()
		f.mu.Unlock()
		f.debug("submit skipped: value unchanged")
		return st, nil
	}

	if f.validate != nil {
		if err := f.validate(value); err != nil {
			f.status = Errored
			f.message = err.Error()
			st := f.stateLocked()
			f.mu.Unlock()
			return st, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	}

	f.status = Saving
	f.message = ""
	f.mu.Unlock()

	err := f.src.Save(ctx, value)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = Errored
		f.message = "Failed to save configuration: " + displayError(err)
		f.debug("save failed: %v", err)
		return f.stateLocked(), err
	}
	f.remote = value
	if f.local != value {
		// Edited while the save was in flight; the newer text is still unsaved.
		f.status = Dirty
		f.message = ""
		return f.stateLocked(), nil
	}
	f.status = Saved
	f.message = MsgSaved
	return f.stateLocked(), nil
}

func displayError(err error) string {
	if apiErr, ok := api.AsError(err); ok {
		return apiErr.Display()
	}
	return err.Error()
}
