package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	// open returns an adapter for key rooted at dir. Calling it twice with the
	// same dir must reach the same durable data (except for memory).
	open    func(t *testing.T, dir, key string) Adapter
	durable bool
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			open: func(t *testing.T, _ string, key string) Adapter {
				return NewMemory(key)
			},
		},
		{
			name:    "file",
			durable: true,
			open: func(t *testing.T, dir, key string) Adapter {
				a, err := NewFile(dir, key)
				require.NoError(t, err)
				return a
			},
		},
		{
			name:    "bolt",
			durable: true,
			open: func(t *testing.T, dir, key string) Adapter {
				a, err := NewBolt(filepath.Join(dir, "tasks.db"), key)
				require.NoError(t, err)
				return a
			},
		},
		{
			name:    "sqlite",
			durable: true,
			open: func(t *testing.T, dir, key string) Adapter {
				a, err := NewSQLite(filepath.Join(dir, "tasks.sqlite"), key)
				require.NoError(t, err)
				return a
			},
		},
	}
}

func TestAdapterContract(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			t.Run("load on empty store reports absent", func(t *testing.T) {
				a := b.open(t, t.TempDir(), DefaultKey)
				defer a.Close()

				blob, ok, err := a.Load(ctx)
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Empty(t, blob)
			})

			t.Run("save then load returns last value", func(t *testing.T) {
				a := b.open(t, t.TempDir(), DefaultKey)
				defer a.Close()

				require.NoError(t, a.Save(ctx, `[{"id":"1"}]`))
				require.NoError(t, a.Save(ctx, `[{"id":"2"}]`))

				blob, ok, err := a.Load(ctx)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, `[{"id":"2"}]`, blob)
			})

			t.Run("clear removes value and is idempotent", func(t *testing.T) {
				a := b.open(t, t.TempDir(), DefaultKey)
				defer a.Close()

				require.NoError(t, a.Save(ctx, "[]"))
				require.NoError(t, a.Clear(ctx))
				require.NoError(t, a.Clear(ctx))

				_, ok, err := a.Load(ctx)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("keys are isolated", func(t *testing.T) {
				dir := t.TempDir()
				a := b.open(t, dir, "list-a")
				require.NoError(t, a.Save(ctx, "A"))
				require.NoError(t, a.Close())

				other := b.open(t, dir, "list-b")
				defer other.Close()
				_, ok, err := other.Load(ctx)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("cancelled context fails with persistence error", func(t *testing.T) {
				a := b.open(t, t.TempDir(), DefaultKey)
				defer a.Close()

				cctx, cancel := context.WithCancel(ctx)
				cancel()

				err := a.Save(cctx, "[]")
				require.Error(t, err)
				var pe *PersistenceError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, OpSave, pe.Op)
				assert.Equal(t, DefaultKey, pe.Key)
				assert.ErrorIs(t, err, context.Canceled)
			})

			t.Run("use after close fails", func(t *testing.T) {
				a := b.open(t, t.TempDir(), DefaultKey)
				require.NoError(t, a.Close())

				_, _, err := a.Load(ctx)
				require.Error(t, err)
				var pe *PersistenceError
				assert.True(t, errors.As(err, &pe))
			})

			t.Run("close while saving", func(t *testing.T) {
				a := b.open(t, t.TempDir(), DefaultKey)

				errs := make(chan error, 50)
				go func() {
					defer close(errs)
					for i := 0; i < 50; i++ {
						errs <- a.Save(ctx, "[]")
					}
				}()
				require.NoError(t, a.Close())

				for err := range errs {
					if err != nil {
						var pe *PersistenceError
						assert.True(t, errors.As(err, &pe), "unexpected error %v", err)
					}
				}
			})

			if b.durable {
				t.Run("value survives reopen", func(t *testing.T) {
					dir := t.TempDir()
					a := b.open(t, dir, DefaultKey)
					require.NoError(t, a.Save(ctx, `[{"id":"persisted"}]`))
					require.NoError(t, a.Close())

					reopened := b.open(t, dir, DefaultKey)
					defer reopened.Close()
					blob, ok, err := reopened.Load(ctx)
					require.NoError(t, err)
					assert.True(t, ok)
					assert.Equal(t, `[{"id":"persisted"}]`, blob)
				})
			}
		})
	}
}

func TestNewFile(t *testing.T) {
	t.Run("creates directory and uses key as file name", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "dir")
		f, err := NewFile(dir, DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "task-storage.json"), f.Path())

		require.NoError(t, f.Save(context.Background(), "[]"))
		data, err := os.ReadFile(f.Path())
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))

		_, err = os.Stat(f.Path() + ".tmp")
		assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
	})

	t.Run("rejects keys that escape the directory", func(t *testing.T) {
		_, err := NewFile(t.TempDir(), "../evil")
		require.Error(t, err)

		_, err = NewFile(t.TempDir(), "")
		require.Error(t, err)
	})

	t.Run("requires a directory", func(t *testing.T) {
		_, err := NewFile("", DefaultKey)
		require.Error(t, err)
	})

	t.Run("unreadable path surfaces as load error", func(t *testing.T) {
		dir := t.TempDir()
		f, err := NewFile(dir, DefaultKey)
		require.NoError(t, err)
		// A directory where the file should be makes ReadFile fail.
		require.NoError(t, os.Mkdir(f.Path(), 0o755))

		_, _, err = f.Load(context.Background())
		require.Error(t, err)
		var pe *PersistenceError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, OpLoad, pe.Op)
	})
}

func TestNewMemoryWith(t *testing.T) {
	m := NewMemoryWith("k", "[]")
	blob, ok, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", blob)
	assert.Equal(t, "k", m.Key())
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewError(OpSave, DefaultKey, cause)
	assert.Equal(t, `persistence save "task-storage": disk full`, err.Error())
	assert.ErrorIs(t, err, cause)

	// wrap does not double-wrap.
	assert.Same(t, err, wrap(OpLoad, "other", err).(*PersistenceError))
	assert.Nil(t, wrap(OpLoad, "k", nil))
}
