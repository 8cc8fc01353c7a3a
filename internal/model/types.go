// Package model defines the core data structures for td.
package model

import "time"

// Task represents a single to-do item.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
	CreatedAt   int64  `json:"createdAt" yaml:"created_at"` // milliseconds since the Unix epoch
}

// Created returns CreatedAt as a time.Time in the local zone.
func (t *Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// Millis converts a time to the millisecond timestamp stored in CreatedAt.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Clone returns a copy of tasks that shares no backing array with the input.
// A nil input yields an empty, non-nil slice.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
