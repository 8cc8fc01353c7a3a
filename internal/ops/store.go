package ops

import (
	"context"

	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/store"
)

// Store defines the task operations the presentation layer relies on.
// The concrete implementation is store.TaskStore, but this interface allows
// fakes in tests and keeps commands from reaching past the public contract.
type Store interface {
	GetAll() []model.Task
	AddTask(title, description string) (model.Task, error)
	DeleteTask(id string) bool
	ToggleComplete(id string) bool
	UpdateTask(id, title, description string) (bool, error)
	Subscribe(fn store.Listener) (unsubscribe func())
	Hydrate(ctx context.Context) error
}

var _ Store = (*store.TaskStore)(nil)
