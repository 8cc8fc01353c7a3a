package ops

import (
	"fmt"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/model"
)

// TaskChanges represents fields that can be updated on a task.
// Nil fields keep their current value.
type TaskChanges struct {
	Title       *string
	Description *string
}

// IsEmpty reports whether no field is set.
func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil
}

// BatchResult lists what a batch operation did, in argument order.
type BatchResult struct {
	Changed   []model.Task // tasks as they are after the change
	Unchanged []model.Task // tasks already in the requested state
}

// AddTask creates a task. Title validation happens in the store.
func AddTask(s Store, title, description string) (model.Task, error) {
	return s.AddTask(title, description)
}

// EditTask applies changes to the task ref resolves to and returns it
// as stored afterwards.
func EditTask(s Store, ref string, changes TaskChanges) (model.Task, error) {
	if changes.IsEmpty() {
		return model.Task{}, fmt.Errorf("no changes specified")
	}
	t, err := ResolveTask(s, ref)
	if err != nil {
		return model.Task{}, err
	}

	title, description := t.Title, t.Description
	if changes.Title != nil {
		title = *changes.Title
	}
	if changes.Description != nil {
		description = *changes.Description
	}

	found, err := s.UpdateTask(t.ID, title, description)
	if err != nil {
		return model.Task{}, err
	}
	if !found {
		return model.Task{}, &cli.NotFoundError{Type: "task", ID: t.ID}
	}
	return ResolveTask(s, t.ID)
}

// CompleteTasks marks every referenced task completed. Tasks already
// completed are reported as unchanged.
func CompleteTasks(s Store, refs []string) (*BatchResult, error) {
	return setCompleted(s, refs, true)
}

// ReopenTasks marks every referenced task active again.
func ReopenTasks(s Store, refs []string) (*BatchResult, error) {
	return setCompleted(s, refs, false)
}

func setCompleted(s Store, refs []string, completed bool) (*BatchResult, error) {
	tasks, err := ResolveTasks(s, refs)
	if err != nil {
		return nil, err
	}
	res := &BatchResult{}
	for _, t := range tasks {
		if t.Completed == completed {
			res.Unchanged = append(res.Unchanged, t)
			continue
		}
		if !s.ToggleComplete(t.ID) {
			return res, &cli.NotFoundError{Type: "task", ID: t.ID}
		}
		t.Completed = completed
		res.Changed = append(res.Changed, t)
	}
	return res, nil
}

// ToggleTasks flips the completed flag of every referenced task.
func ToggleTasks(s Store, refs []string) (*BatchResult, error) {
	tasks, err := ResolveTasks(s, refs)
	if err != nil {
		return nil, err
	}
	res := &BatchResult{}
	for _, t := range tasks {
		if !s.ToggleComplete(t.ID) {
			return res, &cli.NotFoundError{Type: "task", ID: t.ID}
		}
		t.Completed = !t.Completed
		res.Changed = append(res.Changed, t)
	}
	return res, nil
}

// DeleteTasks removes every referenced task and returns what was removed.
func DeleteTasks(s Store, refs []string) ([]model.Task, error) {
	tasks, err := ResolveTasks(s, refs)
	if err != nil {
		return nil, err
	}
	var removed []model.Task
	for _, t := range tasks {
		if s.DeleteTask(t.ID) {
			removed = append(removed, t)
		}
	}
	return removed, nil
}

// ClearCompleted deletes every completed task and returns them.
func ClearCompleted(s Store) []model.Task {
	_, completed := model.Split(s.GetAll())
	var removed []model.Task
	for _, t := range completed {
		if s.DeleteTask(t.ID) {
			removed = append(removed, t)
		}
	}
	return removed
}
