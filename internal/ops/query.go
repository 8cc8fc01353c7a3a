package ops

import (
	"errors"
	"strings"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/model"
)

// ResolveTask finds the task ref refers to. ref is a full ID or any unique
// prefix of one, case-insensitive.
func ResolveTask(s Store, ref string) (model.Task, error) {
	tasks := s.GetAll()
	return resolveIn(tasks, ref)
}

// ResolveTasks resolves every ref against one snapshot. It fails on the
// first bad ref, so a batch either resolves fully or not at all.
// Duplicate refs to the same task are collapsed.
func ResolveTasks(s Store, refs []string) ([]model.Task, error) {
	tasks := s.GetAll()
	seen := make(map[string]bool, len(refs))
	var out []model.Task
	for _, ref := range refs {
		t, err := resolveIn(tasks, ref)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

func resolveIn(tasks []model.Task, ref string) (model.Task, error) {
	id, err := model.MatchID(tasks, ref)
	switch {
	case err == nil:
		return tasks[model.IndexOf(tasks, id)], nil
	case errors.Is(err, model.ErrAmbiguousID):
		return model.Task{}, &cli.AmbiguousError{Ref: strings.TrimSpace(ref), Matches: model.MatchingIDs(tasks, ref)}
	case errors.Is(err, model.ErrIDNotFound):
		return model.Task{}, &cli.NotFoundError{Type: "task", ID: strings.TrimSpace(ref)}
	default:
		return model.Task{}, err
	}
}

// ListTasks returns the tasks visible in view, in insertion order.
func ListTasks(s Store, view model.View) []model.Task {
	return model.Filter(s.GetAll(), view)
}

// FindTasks returns tasks whose title or description contains query,
// ignoring case. An empty query matches nothing.
func FindTasks(s Store, query string) []model.Task {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	var out []model.Task
	for _, t := range s.GetAll() {
		if t.Matches(query) {
			out = append(out, t)
		}
	}
	return out
}

// Summary returns active/completed totals for the current snapshot.
func Summary(s Store) model.Counts {
	return model.Count(s.GetAll())
}
