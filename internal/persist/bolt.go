package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "td"

// Bolt stores the blob in a bbolt database, one bucket, key = blob key.
type Bolt struct {
	key string

	mu sync.Mutex
	db *bolt.DB
}

var _ Adapter = (*Bolt)(nil)

// NewBolt opens (or creates) the database at path.
// bbolt holds an exclusive file lock; a second opener waits up to one second.
func NewBolt(path, key string) (*Bolt, error) {
	if path == "" {
		return nil, NewError(OpOpen, key, errors.New("required bolt path"))
	}
	if key == "" {
		return nil, NewError(OpOpen, key, errors.New("required key"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, NewError(OpOpen, key, fmt.Errorf("create bolt dir: %w", err))
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, NewError(OpOpen, key, fmt.Errorf("opening bolt: %w", err))
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return berr
	}); err != nil {
		_ = db.Close()
		return nil, NewError(OpOpen, key, fmt.Errorf("init bucket: %w", err))
	}
	return &Bolt{key: key, db: db}, nil
}

func (b *Bolt) Key() string {
	return b.key
}

func (b *Bolt) Load(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, wrap(OpLoad, b.key, err)
	}
	var (
		blob string
		ok   bool
	)
	err := b.view(func(bucket *bolt.Bucket) error {
		v := bucket.Get([]byte(b.key))
		if v == nil {
			return nil
		}
		// v is only valid for the life of the transaction.
		blob, ok = string(v), true
		return nil
	})
	if err != nil {
		return "", false, wrap(OpLoad, b.key, err)
	}
	return blob, ok, nil
}

func (b *Bolt) Save(ctx context.Context, blob string) error {
	if err := ctx.Err(); err != nil {
		return wrap(OpSave, b.key, err)
	}
	return wrap(OpSave, b.key, b.update(func(bucket *bolt.Bucket) error {
		return bucket.Put([]byte(b.key), []byte(blob))
	}))
}

func (b *Bolt) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return wrap(OpClear, b.key, err)
	}
	return wrap(OpClear, b.key, b.update(func(bucket *bolt.Bucket) error {
		return bucket.Delete([]byte(b.key))
	}))
}

// Close waits for a transaction in progress, then closes the database.
func (b *Bolt) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *Bolt) view(fn func(*bolt.Bucket) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return ErrClosed
	}
	return b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		if bucket == nil {
			return errors.New("bucket missing")
		}
		return fn(bucket)
	})
}

func (b *Bolt) update(fn func(*bolt.Bucket) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return ErrClosed
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		if bucket == nil {
			return errors.New("bucket missing")
		}
		return fn(bucket)
	})
}
