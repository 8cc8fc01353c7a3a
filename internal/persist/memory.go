package persist

import (
	"context"
	"sync"
)

// Memory keeps the blob in process memory. Nothing survives a restart; it
// backs tests and the "memory" backend for throwaway sessions.
type Memory struct {
	key string

	mu     sync.Mutex
	blob   string
	ok     bool
	closed bool
}

var _ Adapter = (*Memory)(nil)

// NewMemory returns an empty in-memory adapter for key.
func NewMemory(key string) *Memory {
	return &Memory{key: key}
}

// NewMemoryWith returns an in-memory adapter pre-loaded with blob.
func NewMemoryWith(key, blob string) *Memory {
	return &Memory{key: key, blob: blob, ok: true}
}

func (m *Memory) Key() string {
	return m.key
}

func (m *Memory) Load(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, wrap(OpLoad, m.key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, wrap(OpLoad, m.key, ErrClosed)
	}
	return m.blob, m.ok, nil
}

func (m *Memory) Save(ctx context.Context, blob string) error {
	if err := ctx.Err(); err != nil {
		return wrap(OpSave, m.key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return wrap(OpSave, m.key, ErrClosed)
	}
	m.blob = blob
	m.ok = true
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return wrap(OpClear, m.key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return wrap(OpClear, m.key, ErrClosed)
	}
	m.blob = ""
	m.ok = false
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
