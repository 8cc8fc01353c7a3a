package cli

import (
	"fmt"
	"strings"

	"github.com/jacksmith/td/internal/model"
)

// NotFoundError indicates a task was not found.
type NotFoundError struct {
	Type string // "task" or "command"
	ID   string // the reference that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.ID)
}

// AmbiguousError indicates an abbreviated ID matched more than one task.
type AmbiguousError struct {
	Ref     string   // what the user typed
	Matches []string // full IDs that start with Ref
}

func (e *AmbiguousError) Error() string {
	short := make([]string, len(e.Matches))
	for i, id := range e.Matches {
		short[i] = model.ShortID(id)
	}
	return fmt.Sprintf("id %q is ambiguous, matches: %s", e.Ref, strings.Join(short, ", "))
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error()
}
