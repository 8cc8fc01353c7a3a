package store

import "fmt"

// ValidationError indicates rejected input. The store is left unchanged.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func errEmptyTitle() error {
	return &ValidationError{Field: "title", Message: "must not be empty"}
}
