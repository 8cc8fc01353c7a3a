package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// editHeader is prepended to the file opened by EditTask.
const editHeader = `# The first line is the title; everything after it is the description.
# Lines starting with '#' are ignored. An empty title aborts the edit.
`

// EditTask opens title and description in $EDITOR and returns the edited
// values.
func EditTask(title, description string) (string, string, error) {
	out, err := EditInEditor(FormatEditable(title, description), ".md")
	if err != nil {
		return "", "", err
	}
	newTitle, newDescription := ParseEditable(out)
	if newTitle == "" {
		return "", "", fmt.Errorf("empty title, edit aborted")
	}
	return newTitle, newDescription, nil
}

// FormatEditable renders a task for editing in a text editor.
func FormatEditable(title, description string) []byte {
	var b strings.Builder
	b.WriteString(editHeader)
	b.WriteString(title)
	b.WriteString("\n")
	if description != "" {
		b.WriteString("\n")
		b.WriteString(description)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// ParseEditable is the inverse of FormatEditable. The first non-comment,
// non-blank line is the title; the remaining lines, trimmed of surrounding
// blank lines, form the description.
func ParseEditable(content []byte) (title, description string) {
	var rest []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if title == "" {
			title = strings.TrimSpace(line)
			continue
		}
		rest = append(rest, strings.TrimRight(line, " \t\r"))
	}
	return title, strings.TrimSpace(strings.Join(rest, "\n"))
}

// EditInEditor opens content in $EDITOR and returns modified content.
// The suffix is used for the temporary file (e.g., ".md" for syntax highlighting).
// Returns error if EDITOR/VISUAL not set or editor exits non-zero.
func EditInEditor(content []byte, suffix string) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, fmt.Errorf("EDITOR not set. Set it or use --title/--description instead of -i")
	}

	tmpFile, err := os.CreateTemp("", "td-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := runEditor(editor, tmpPath); err != nil {
		return nil, err
	}

	result, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return result, nil
}

// getEditor returns the editor command from environment.
// Checks VISUAL first (for graphical editors), then EDITOR.
func getEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// runEditor executes the editor with the given file path.
func runEditor(editor, path string) error {
	// "code --wait" style values carry arguments.
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	args := append(parts[1:], path)
	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
