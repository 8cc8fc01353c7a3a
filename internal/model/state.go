package model

import "strings"

// View selects which tasks a listing shows.
type View string

const (
	ViewActive View = "active"
	ViewDone   View = "done"
	ViewAll    View = "all"
)

// ParseView converts a config or flag value into a View.
func ParseView(s string) (View, bool) {
	switch View(strings.ToLower(s)) {
	case ViewActive:
		return ViewActive, true
	case ViewDone:
		return ViewDone, true
	case ViewAll:
		return ViewAll, true
	}
	return "", false
}

// Split partitions tasks into active and completed lists.
// Relative insertion order is preserved within each list.
func Split(tasks []Task) (active, completed []Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}

// Filter returns the tasks visible in v, in insertion order.
func Filter(tasks []Task, v View) []Task {
	active, completed := Split(tasks)
	switch v {
	case ViewActive:
		return active
	case ViewDone:
		return completed
	default:
		return Clone(tasks)
	}
}

// Counts summarizes a snapshot.
type Counts struct {
	Total     int
	Active    int
	Completed int
}

// Count returns the totals for tasks.
func Count(tasks []Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	c.Active = c.Total - c.Completed
	return c
}

// Matches reports whether query occurs in the task's title or description,
// ignoring case.
func (t *Task) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}
