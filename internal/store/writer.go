package store

import (
	"context"
	"sync"

	"github.com/jacksmith/td/internal/persist"
	"go.uber.org/zap"
)

// writer applies snapshots to the adapter from a single goroutine.
//
// It holds at most one pending blob; a newer submit replaces an unsent one,
// so writes happen in submission order and the last write is always the
// latest snapshot. Until open is called the writer is gated and writes
// nothing.
type writer struct {
	adapter persist.Adapter
	log     *zap.Logger
	onError func(error)

	mu      sync.Mutex
	cond    *sync.Cond
	pending *string
	seq     uint64 // last submitted
	done    uint64 // last applied or superseded
	opened  bool
	closed  bool
	stopped chan struct{}
}

func newWriter(adapter persist.Adapter, log *zap.Logger, onError func(error)) *writer {
	w := &writer{
		adapter: adapter,
		log:     log,
		onError: onError,
		stopped: make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

// submit queues blob as the newest snapshot. Callers hold the store lock,
// which fixes submission order to mutation order.
func (w *writer) submit(blob string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn("store closed, snapshot not persisted")
		return
	}
	w.seq++
	w.pending = &blob
	w.cond.Broadcast()
}

// open discards anything submitted so far and starts writing.
func (w *writer) open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.log.Debug("discarding snapshot taken before hydration", zap.Uint64("seq", w.seq))
	}
	w.pending = nil
	w.done = w.seq
	w.opened = true
	w.cond.Broadcast()
}

func (w *writer) loop() {
	defer close(w.stopped)
	for {
		w.mu.Lock()
		for !w.closed && (!w.opened || w.pending == nil) {
			w.cond.Wait()
		}
		if w.pending == nil || !w.opened {
			w.mu.Unlock()
			return
		}
		blob, seq := *w.pending, w.seq
		w.pending = nil
		w.mu.Unlock()

		err := w.adapter.Save(context.Background(), blob)
		if err != nil {
			w.log.Error("failed to persist snapshot", zap.Uint64("seq", seq), zap.Error(err))
			if w.onError != nil {
				w.onError(err)
			}
		} else {
			w.log.Debug("snapshot persisted", zap.Uint64("seq", seq), zap.Int("bytes", len(blob)))
		}

		w.mu.Lock()
		w.done = seq
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

// flush waits until everything submitted before the call has been written.
// A gated writer has nothing it may write, so flush returns at once.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	if !w.opened || w.done >= w.seq {
		w.mu.Unlock()
		return nil
	}
	target := w.seq
	w.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		w.mu.Lock()
		for w.done < target {
			w.cond.Wait()
		}
		w.mu.Unlock()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains pending writes (bounded by ctx) and stops the goroutine.
func (w *writer) close(ctx context.Context) error {
	err := w.flush(ctx)

	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()

	if err != nil {
		return err
	}
	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
