// Package store owns the in-memory task collection. It is the only place tasks
// are mutated, notifies subscribers after each change, and persists full
// snapshots through a persist.Adapter in mutation order.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/persist"
	"go.uber.org/zap"
)

// State is the lifecycle state of a TaskStore.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Listener receives a private copy of the snapshot after each mutation.
type Listener func(tasks []model.Task)

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *TaskStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the task ID source.
func WithIDGenerator(g model.IDGenerator) Option {
	return func(s *TaskStore) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithErrorHook registers a callback for persistence write failures.
// It runs on the writer goroutine.
func WithErrorHook(fn func(error)) Option {
	return func(s *TaskStore) {
		s.onPersistError = fn
	}
}

// TaskStore is the single source of truth for tasks.
// All methods are safe for concurrent use; mutations are serialized.
type TaskStore struct {
	adapter        persist.Adapter
	log            *zap.Logger
	now            func() time.Time
	ids            model.IDGenerator
	onPersistError func(error)

	mu        sync.Mutex
	tasks     []model.Task
	state     State
	listeners map[int]Listener
	nextSub   int

	queue      []notification
	delivering bool

	hydrateMu sync.Mutex
	w         *writer
}

// notification is one snapshot waiting to be handed to listeners.
type notification struct {
	tasks     []model.Task
	listeners []Listener
}

// New returns an Uninitialized store backed by adapter.
// Call Hydrate before relying on persisted data, and Close when done.
//
// Nothing is written until Hydrate has run: mutations made before it change
// memory only, and Hydrate replaces them with the durable snapshot. A store
// that is never hydrated never persists.
func New(adapter persist.Adapter, opts ...Option) *TaskStore {
	s := &TaskStore{
		adapter:   adapter,
		log:       zap.NewNop(),
		now:       time.Now,
		ids:       model.RandomIDGenerator{},
		tasks:     []model.Task{},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.w = newWriter(adapter, s.log, s.onPersistError)
	return s
}

// State returns the current lifecycle state.
func (s *TaskStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GetAll returns a copy of the collection in insertion order.
func (s *TaskStore) GetAll() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Clone(s.tasks)
}

// AddTask appends a new open task. Title and description are trimmed.
func (s *TaskStore) AddTask(title, description string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, errEmptyTitle()
	}

	s.mu.Lock()
	task := model.Task{
		ID:          s.newID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   model.Millis(s.now()),
	}
	s.tasks = append(s.tasks, task)
	s.commitLocked("add", task.ID)
	s.mu.Unlock()

	s.deliver()
	return task, nil
}

// DeleteTask removes the task with id. Reports whether a task was removed.
func (s *TaskStore) DeleteTask(id string) bool {
	s.mu.Lock()
	i := model.IndexOf(s.tasks, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.commitLocked("delete", id)
	s.mu.Unlock()

	s.deliver()
	return true
}

// ToggleComplete flips the completed flag. Reports whether the task exists.
func (s *TaskStore) ToggleComplete(id string) bool {
	s.mu.Lock()
	i := model.IndexOf(s.tasks, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.commitLocked("toggle", id)
	s.mu.Unlock()

	s.deliver()
	return true
}

// UpdateTask replaces the title and description of the task with id.
// The title is validated before the lookup, so an empty title fails even for
// an unknown id. Reports whether the task exists.
func (s *TaskStore) UpdateTask(id, title, description string) (bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, errEmptyTitle()
	}

	s.mu.Lock()
	i := model.IndexOf(s.tasks, id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.tasks[i].Title = title
	s.tasks[i].Description = strings.TrimSpace(description)
	s.commitLocked("update", id)
	s.mu.Unlock()

	s.deliver()
	return true, nil
}

// Subscribe registers fn to run after every successful mutation.
// The returned function removes it; calling it more than once is harmless.
//
// Listeners see snapshots in mutation order and run outside the store lock,
// so they may read or mutate the store. When several goroutines mutate at
// once, a listener may run on a goroutine other than the one that made the
// change. A nil fn is ignored.
func (s *TaskStore) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Hydrate loads the last persisted snapshot and replaces the in-memory
// collection with it. Only the first successful call does anything.
//
// A missing snapshot leaves the collection empty. A read or parse failure
// also leaves it empty, moves the store to Ready, and returns a
// *persist.PersistenceError. If ctx ends first the store stays
// Uninitialized and ctx.Err() is returned.
func (s *TaskStore) Hydrate(ctx context.Context) error {
	s.hydrateMu.Lock()
	defer s.hydrateMu.Unlock()

	if s.State() == Ready {
		return nil
	}

	tasks, loadErr := s.load(ctx)
	if loadErr != nil && ctx.Err() != nil {
		s.log.Warn("hydration interrupted", zap.Error(ctx.Err()))
		return ctx.Err()
	}

	s.mu.Lock()
	s.tasks = tasks
	s.state = Ready
	s.enqueueLocked(model.Clone(tasks))
	s.w.open()
	s.mu.Unlock()

	if loadErr != nil {
		s.log.Error("hydration failed, starting empty", zap.Error(loadErr))
	} else {
		s.log.Info("hydrated", zap.Int("tasks", len(tasks)))
	}

	// Views rendered before hydration need the loaded data.
	s.deliver()
	return loadErr
}

func (s *TaskStore) load(ctx context.Context) ([]model.Task, error) {
	blob, ok, err := s.adapter.Load(ctx)
	if err != nil {
		return []model.Task{}, err
	}
	if !ok {
		return []model.Task{}, nil
	}
	tasks, err := model.DecodeSnapshot(blob)
	if err != nil {
		return []model.Task{}, persist.NewError(persist.OpParse, s.adapter.Key(), err)
	}
	return tasks, nil
}

// Flush blocks until every snapshot submitted so far has been written, or
// ctx ends. Before hydration there is nothing to write and it returns nil.
func (s *TaskStore) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close flushes pending writes and stops the writer. It does not close the
// adapter, which belongs to the caller.
func (s *TaskStore) Close(ctx context.Context) error {
	return s.w.close(ctx)
}

// newID returns an ID not already in use. Called with s.mu held.
func (s *TaskStore) newID() string {
	for {
		id := s.ids.NewID()
		if id != "" && model.IndexOf(s.tasks, id) < 0 {
			return id
		}
		s.log.Warn("id generator returned a used id, retrying", zap.String("id", id))
	}
}

// commitLocked serializes the collection, hands it to the writer, and
// queues the notification. Called with s.mu held after a mutation.
func (s *TaskStore) commitLocked(op, id string) {
	snap := model.Clone(s.tasks)
	blob, err := model.EncodeSnapshot(snap)
	if err != nil {
		// Task holds only strings, bools and ints; encoding cannot fail.
		s.log.Error("failed to encode snapshot", zap.String("op", op), zap.Error(err))
	} else {
		s.w.submit(blob)
	}
	s.log.Debug("mutation", zap.String("op", op), zap.String("id", id), zap.Int("tasks", len(snap)))
	s.enqueueLocked(snap)
}

// enqueueLocked queues snap for the current listeners. Called with s.mu held,
// so queue order is mutation order.
func (s *TaskStore) enqueueLocked(snap []model.Task) {
	listeners := s.listenerList()
	if len(listeners) == 0 {
		return
	}
	s.queue = append(s.queue, notification{tasks: snap, listeners: listeners})
}

// listenerList returns listeners in subscription order. Called with s.mu held.
func (s *TaskStore) listenerList() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// deliver runs queued notifications in order, outside s.mu. Only one
// goroutine delivers at a time; if another one is already delivering it
// picks up what this call queued, so deliver returns at once.
func (s *TaskStore) deliver() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	finished := false
	defer func() {
		// A listener panicked; let the next mutation resume delivery.
		if !finished {
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
		}
	}()

	for len(s.queue) > 0 {
		n := s.queue[0]
		s.queue[0] = notification{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		for _, fn := range n.listeners {
			fn(model.Clone(n.tasks))
		}

		s.mu.Lock()
	}
	s.queue = nil
	s.delivering = false
	finished = true
	s.mu.Unlock()
}
