// Package cli provides CLI infrastructure for td: typed errors, colored
// output, $EDITOR integration and command-prefix matching.
package cli

import (
	"fmt"
	"sort"
	"strings"
)

// MatchCommand finds a unique command from a prefix, case-insensitively.
// An exact match wins over longer commands sharing the prefix.
func MatchCommand(prefix string, commands []string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("empty command")
	}

	var matches []string
	for _, cmd := range commands {
		lower := strings.ToLower(cmd)
		if lower == prefix {
			return cmd, nil
		}
		if strings.HasPrefix(lower, prefix) {
			matches = append(matches, cmd)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Type: "command", ID: prefix}
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("ambiguous command %q matches: %s", prefix, strings.Join(matches, ", "))
	}
}
