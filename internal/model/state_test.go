package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleTasks() []Task {
	return []Task{
		{ID: "1", Title: "Buy milk", Description: "2%"},
		{ID: "2", Title: "Call plumber", Completed: true},
		{ID: "3", Title: "Water plants", Description: "Fern needs MILK too"},
		{ID: "4", Title: "File taxes", Completed: true},
	}
}

func TestSplit(t *testing.T) {
	active, completed := Split(sampleTasks())

	assert.Equal(t, []string{"1", "3"}, ids(active))
	assert.Equal(t, []string{"2", "4"}, ids(completed))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		view View
		want []string
	}{
		{ViewActive, []string{"1", "3"}},
		{ViewDone, []string{"2", "4"}},
		{ViewAll, []string{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sampleTasks(), tt.view)))
		})
	}
}

func TestFilterAllDoesNotAlias(t *testing.T) {
	tasks := sampleTasks()
	out := Filter(tasks, ViewAll)
	out[0].Title = "changed"
	assert.Equal(t, "Buy milk", tasks[0].Title)
}

func TestParseView(t *testing.T) {
	v, ok := ParseView("DONE")
	assert.True(t, ok)
	assert.Equal(t, ViewDone, v)

	_, ok = ParseView("archived")
	assert.False(t, ok)
}

func TestCount(t *testing.T) {
	assert.Equal(t, Counts{Total: 4, Active: 2, Completed: 2}, Count(sampleTasks()))
	assert.Equal(t, Counts{}, Count(nil))
}

func TestTaskMatches(t *testing.T) {
	tasks := sampleTasks()
	assert.True(t, tasks[0].Matches("milk"))
	assert.True(t, tasks[2].Matches("milk"), "description match")
	assert.False(t, tasks[1].Matches("milk"))
}

func TestCreated(t *testing.T) {
	now := time.Date(2025, 12, 2, 10, 30, 0, 0, time.UTC)
	task := Task{CreatedAt: Millis(now)}
	assert.True(t, task.Created().Equal(now))
}

func TestIndexOfAndClone(t *testing.T) {
	tasks := sampleTasks()
	assert.Equal(t, 2, IndexOf(tasks, "3"))
	assert.Equal(t, -1, IndexOf(tasks, "nope"))

	c := Clone(tasks)
	c[0].Completed = true
	assert.False(t, tasks[0].Completed)
	assert.NotNil(t, Clone(nil))
}

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
