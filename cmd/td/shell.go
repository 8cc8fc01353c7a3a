package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/ops"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long: `Start an interactive session on the task list.

The list is loaded once and every change is saved in the background while
you keep typing. Commands can be abbreviated to any unique prefix.

Type 'help' inside the shell for the command list, 'quit' or Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// shellCommands lists shell commands in the order help prints them.
var shellCommands = []string{
	"add", "list", "show", "share", "done", "reopen", "toggle",
	"rm", "edit", "find", "clear-done", "help", "quit", "exit",
}

var shellUsage = map[string]string{
	"add":        "add <title> [-- <description>]",
	"list":       "list [active|done|all]",
	"show":       "show <id>",
	"share":      "share <id>",
	"done":       "done <id>...",
	"reopen":     "reopen <id>...",
	"toggle":     "toggle <id>...",
	"rm":         "rm <id>...",
	"edit":       "edit <id> <new title>",
	"find":       "find <text>",
	"clear-done": "clear-done",
	"help":       "help",
	"quit":       "quit",
	"exit":       "exit",
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	return runShellLoop(a.store, stdin, os.Stdout)
}

// runShellLoop reads commands from in until EOF or quit. After each command
// that changed the list, the status line is printed from the snapshot the
// store delivered to its subscriber.
func runShellLoop(s ops.Store, in io.Reader, out io.Writer) error {
	var (
		mu     sync.Mutex
		dirty  bool
		latest []model.Task
	)
	unsubscribe := s.Subscribe(func(tasks []model.Task) {
		mu.Lock()
		defer mu.Unlock()
		dirty = true
		latest = tasks
	})
	defer unsubscribe()

	fmt.Fprintf(out, "td shell, %s. Type 'help' for commands.\n", cli.StatusLine(s.GetAll()))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "td> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		word, rest, _ := strings.Cut(line, " ")
		name, err := cli.MatchCommand(word, shellCommands)
		if err != nil {
			fmt.Fprintln(out, cli.FormatError(err))
			continue
		}
		if name == "quit" || name == "exit" {
			return nil
		}

		if err := runShellCommand(s, out, name, strings.TrimSpace(rest)); err != nil {
			fmt.Fprintln(out, cli.FormatError(err))
		}

		mu.Lock()
		if dirty {
			fmt.Fprintln(out, cli.Gray(cli.StatusLine(latest)))
			dirty = false
		}
		mu.Unlock()
	}
}

func runShellCommand(s ops.Store, out io.Writer, name, rest string) error {
	refs := strings.Fields(rest)
	needArgs := func() error {
		if rest == "" {
			return fmt.Errorf("usage: %s", shellUsage[name])
		}
		return nil
	}

	switch name {
	case "add":
		if err := needArgs(); err != nil {
			return err
		}
		title, description, _ := strings.Cut(rest, " -- ")
		task, err := ops.AddTask(s, title, description)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %s %s\n", model.ShortID(task.ID), task.Title)

	case "list":
		view := model.ViewActive
		if rest != "" {
			v, ok := model.ParseView(rest)
			if !ok {
				return fmt.Errorf("unknown view %q (use active, done or all)", rest)
			}
			view = v
		}
		cli.RenderTasks(out, ops.ListTasks(s, view))

	case "show", "share":
		if err := needArgs(); err != nil {
			return err
		}
		task, err := ops.ResolveTask(s, refs[0])
		if err != nil {
			return err
		}
		if name == "share" {
			fmt.Fprint(out, cli.ShareText(task))
		} else {
			cli.RenderTask(out, task)
		}

	case "done", "reopen", "toggle":
		if err := needArgs(); err != nil {
			return err
		}
		var (
			res *ops.BatchResult
			err error
			msg string
		)
		switch name {
		case "done":
			res, err = ops.CompleteTasks(s, refs)
			msg = "is already done"
		case "reopen":
			res, err = ops.ReopenTasks(s, refs)
			msg = "is already active"
		default:
			res, err = ops.ToggleTasks(s, refs)
		}
		if err != nil {
			return err
		}
		printBatch(out, res, msg)

	case "rm":
		if err := needArgs(); err != nil {
			return err
		}
		removed, err := ops.DeleteTasks(s, refs)
		if err != nil {
			return err
		}
		for _, t := range removed {
			fmt.Fprintf(out, "Deleted %s %s\n", model.ShortID(t.ID), t.Title)
		}

	case "edit":
		ref, title, _ := strings.Cut(rest, " ")
		title = strings.TrimSpace(title)
		if ref == "" || title == "" {
			return fmt.Errorf("usage: %s", shellUsage[name])
		}
		task, err := ops.EditTask(s, ref, ops.TaskChanges{Title: &title})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated %s %s\n", model.ShortID(task.ID), task.Title)

	case "find":
		if err := needArgs(); err != nil {
			return err
		}
		found := ops.FindTasks(s, rest)
		if len(found) == 0 {
			fmt.Fprintf(out, "No tasks matching %q.\n", rest)
			return nil
		}
		cli.RenderTasks(out, found)

	case "clear-done":
		removed := ops.ClearCompleted(s)
		fmt.Fprintf(out, "Deleted %d completed task(s).\n", len(removed))

	case "help":
		for _, c := range shellCommands {
			fmt.Fprintf(out, "  %s\n", shellUsage[c])
		}
	}
	return nil
}
