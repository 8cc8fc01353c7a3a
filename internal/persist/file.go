package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File stores the blob as <dir>/<key>.json. Writes go to a temp file that
// is fsynced and renamed over the target, so a crash leaves either the old
// or the new snapshot, never a torn one.
type File struct {
	key  string
	path string

	mu     sync.Mutex
	closed bool
}

var _ Adapter = (*File)(nil)

// NewFile returns a file adapter rooted at dir, creating dir if needed.
func NewFile(dir, key string) (*File, error) {
	if dir == "" {
		return nil, NewError(OpOpen, key, errors.New("required directory"))
	}
	if key == "" || strings.ContainsAny(key, `/\`) {
		return nil, NewError(OpOpen, key, fmt.Errorf("invalid key %q", key))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, NewError(OpOpen, key, fmt.Errorf("create dir: %w", err))
	}
	return &File{key: key, path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the file the blob is stored in.
func (f *File) Path() string {
	return f.path
}

func (f *File) Key() string {
	return f.key
}

func (f *File) Load(ctx context.Context) (string, bool, error) {
	if err := f.check(ctx); err != nil {
		return "", false, wrap(OpLoad, f.key, err)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, wrap(OpLoad, f.key, err)
	}
	return string(data), true, nil
}

func (f *File) Save(ctx context.Context, blob string) error {
	if err := f.check(ctx); err != nil {
		return wrap(OpSave, f.key, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return wrap(OpSave, f.key, writeAtomic(f.path, []byte(blob)))
}

func (f *File) Clear(ctx context.Context) error {
	if err := f.check(ctx); err != nil {
		return wrap(OpClear, f.key, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return wrap(OpClear, f.key, err)
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *File) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	fh, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	if _, err := fh.Write(data); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("fsync: %w", err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
