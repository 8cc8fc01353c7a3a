package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/persist"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingAdapter wraps persist.Memory and records every Save in order.
// When block is set, Save signals on started and waits for release.
type recordingAdapter struct {
	*persist.Memory

	mu      sync.Mutex
	saves   []string
	block   bool
	started chan struct{}
	release chan struct{}
}

func newRecordingAdapter() *recordingAdapter {
	return &recordingAdapter{
		Memory:  persist.NewMemory(persist.DefaultKey),
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (r *recordingAdapter) Save(ctx context.Context, blob string) error {
	r.mu.Lock()
	block := r.block
	r.mu.Unlock()

	if block {
		r.started <- struct{}{}
		<-r.release
	}

	if err := r.Memory.Save(ctx, blob); err != nil {
		return err
	}
	r.mu.Lock()
	r.saves = append(r.saves, blob)
	r.mu.Unlock()
	return nil
}

func (r *recordingAdapter) Saves() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.saves))
	copy(out, r.saves)
	return out
}

func (r *recordingAdapter) stored(t *testing.T) string {
	t.Helper()
	blob, ok, err := r.Memory.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok, "nothing persisted")
	return blob
}

// mockAdapter is a testify mock of persist.Adapter.
type mockAdapter struct {
	mock.Mock
}

func (m *mockAdapter) Key() string {
	return persist.DefaultKey
}

func (m *mockAdapter) Load(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockAdapter) Save(ctx context.Context, blob string) error {
	return m.Called(ctx, blob).Error(0)
}

func (m *mockAdapter) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAdapter) Close() error {
	return nil
}

var fixedNow = time.Date(2025, 12, 2, 10, 30, 0, 0, time.UTC)

// sequentialIDs yields "id-1", "id-2", ...
func sequentialIDs() model.IDGenerator {
	var mu sync.Mutex
	n := 0
	return model.IDGeneratorFunc(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

// newReadyStore returns a hydrated store over adapter. The store is closed
// when the test ends.
func newReadyStore(t *testing.T, adapter persist.Adapter, opts ...Option) *TaskStore {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	s := New(adapter, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Close(ctx)
	})
	require.NoError(t, s.Hydrate(context.Background()))
	return s
}

func flush(t *testing.T, s *TaskStore) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func encode(t *testing.T, tasks []model.Task) string {
	t.Helper()
	blob, err := model.EncodeSnapshot(tasks)
	require.NoError(t, err)
	return blob
}
