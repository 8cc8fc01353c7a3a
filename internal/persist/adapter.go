// Package persist provides durable storage for one serialized blob under a
// fixed key. The task store uses it to hydrate at startup and to snapshot
// after every mutation.
package persist

import (
	"context"
	"errors"
	"fmt"
)

// DefaultKey is the well-known key the task collection is stored under.
const DefaultKey = "task-storage"

// ErrClosed is returned by adapters used after Close.
var ErrClosed = errors.New("adapter is closed")

// Adapter is a durable key-value surface bound to a single key.
//
// Load reports ok=false when nothing has been stored yet. Save replaces the
// stored blob. Clear removes it; clearing an absent key is not an error.
// All failures are returned as *PersistenceError.
type Adapter interface {
	Key() string
	Load(ctx context.Context) (blob string, ok bool, err error)
	Save(ctx context.Context, blob string) error
	Clear(ctx context.Context) error
	Close() error
}

// Op names the adapter operation that failed.
type Op string

const (
	OpLoad  Op = "load"
	OpSave  Op = "save"
	OpClear Op = "clear"
	OpOpen  Op = "open"
	OpParse Op = "parse"
)

// PersistenceError indicates a failure reading or writing durable state.
type PersistenceError struct {
	Op  Op     // operation that failed
	Key string // blob key
	Err error  // underlying cause
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func wrap(op Op, key string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Key: key, Err: err}
}

// NewError builds a PersistenceError. Used by callers that detect failures
// above the adapter, such as an unparseable blob.
func NewError(op Op, key string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Key: key, Err: err}
}
