package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/ops"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete tasks",
	Long: `Delete one or more tasks permanently.

On a terminal td asks "Delete this task?" for each task; --yes skips the
question. When input is not a terminal no question is asked.

Examples:
  td rm 3f2a
  td rm 3f2a a1b2 --yes`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runRm,
	ValidArgsFunction: completeTaskIDs,
}

var clearDoneCmd = &cobra.Command{
	Use:   "clear-done",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE:  runClearDone,
}

var rmYes bool

// stdin is where confirmations are read from; tests replace it.
var stdin io.Reader = os.Stdin

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearDoneCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	tasks, err := ops.ResolveTasks(a.store, args)
	if err != nil {
		return err
	}

	ask := !rmYes && isInteractive()
	in := bufio.NewReader(stdin)
	var refs []string
	for _, t := range tasks {
		if ask && !confirm(in, fmt.Sprintf("Delete this task? %s %s", model.ShortID(t.ID), t.Title)) {
			fmt.Printf("Kept %s\n", model.ShortID(t.ID))
			continue
		}
		refs = append(refs, t.ID)
	}
	if len(refs) == 0 {
		return nil
	}

	removed, err := ops.DeleteTasks(a.store, refs)
	if err != nil {
		return err
	}
	for _, t := range removed {
		fmt.Printf("Deleted %s %s\n", model.ShortID(t.ID), t.Title)
	}
	return nil
}

func runClearDone(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	removed := ops.ClearCompleted(a.store)
	switch len(removed) {
	case 0:
		fmt.Println("No completed tasks.")
	case 1:
		fmt.Println("Deleted 1 completed task.")
	default:
		fmt.Printf("Deleted %d completed tasks.\n", len(removed))
	}
	return nil
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	f, ok := stdin.(*os.File)
	return ok && cli.IsTerminal(f) && cli.IsTerminal(os.Stdout)
}

// confirm prints question and reads a yes/no answer. Anything but y/yes is no.
func confirm(in *bufio.Reader, question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Println()
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
