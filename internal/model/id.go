package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidID is returned when an ID reference is empty or malformed.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrAmbiguousID is returned when an ID prefix matches more than one task.
	ErrAmbiguousID = errors.New("ambiguous ID")

	// ErrIDNotFound is returned when no task matches an ID reference.
	ErrIDNotFound = errors.New("ID not found")
)

// ShortIDLength is the number of characters shown for an ID in list views.
const ShortIDLength = 8

// IDGenerator produces task identifiers.
type IDGenerator interface {
	NewID() string
}

// RandomIDGenerator generates random (v4) UUIDs.
type RandomIDGenerator struct{}

// NewID returns a random identifier.
func (RandomIDGenerator) NewID() string {
	return uuid.NewString()
}

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f.
func (f IDGeneratorFunc) NewID() string {
	return f()
}

// ShortID returns the abbreviated form of an ID used for display.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// NormalizeRef lowercases and trims a user-typed ID reference.
// UUIDs are generated lowercase, so lookups are case-insensitive.
func NormalizeRef(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

// MatchID resolves ref against the IDs in tasks.
// An exact match wins; otherwise ref must be a prefix of exactly one ID.
func MatchID(tasks []Task, ref string) (string, error) {
	ref = NormalizeRef(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrInvalidID)
	}

	var matches []string
	for i := range tasks {
		id := strings.ToLower(tasks[i].ID)
		if id == ref {
			return tasks[i].ID, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, tasks[i].ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrIDNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d tasks", ErrAmbiguousID, ref, len(matches))
	}
}

// MatchingIDs returns every ID in tasks that starts with ref.
func MatchingIDs(tasks []Task, ref string) []string {
	ref = NormalizeRef(ref)
	var out []string
	for i := range tasks {
		if strings.HasPrefix(strings.ToLower(tasks[i].ID), ref) {
			out = append(out, tasks[i].ID)
		}
	}
	return out
}
