package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/ops"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark tasks as done",
	Long: `Mark one or more tasks as done. Tasks that are already done are left alone.

All IDs are resolved before anything changes, so a typo in one ID leaves
every task untouched.

Examples:
  td done 3f2a
  td done 3f2a a1b2`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runDone,
	ValidArgsFunction: completeTaskIDs,
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>...",
	Short: "Mark done tasks as active again",
	Long: `Mark one or more done tasks as active again.

Examples:
  td reopen 3f2a`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runReopen,
	ValidArgsFunction: completeTaskIDs,
}

var toggleCmd = &cobra.Command{
	Use:               "toggle <id>...",
	Short:             "Flip tasks between active and done",
	Args:              cobra.MinimumNArgs(1),
	RunE:              runToggle,
	ValidArgsFunction: completeTaskIDs,
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(toggleCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	res, err := ops.CompleteTasks(a.store, args)
	if err != nil {
		return err
	}
	printBatch(os.Stdout, res, "is already done")
	return nil
}

func runReopen(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	res, err := ops.ReopenTasks(a.store, args)
	if err != nil {
		return err
	}
	printBatch(os.Stdout, res, "is already active")
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	res, err := ops.ToggleTasks(a.store, args)
	if err != nil {
		return err
	}
	printBatch(os.Stdout, res, "")
	return nil
}

func printBatch(w io.Writer, res *ops.BatchResult, unchangedMsg string) {
	for _, t := range res.Changed {
		verb := "Reopened"
		if t.Completed {
			verb = "Done"
		}
		fmt.Fprintf(w, "%s %s %s\n", verb, model.ShortID(t.ID), t.Title)
	}
	for _, t := range res.Unchanged {
		fmt.Fprintf(w, "%s %s\n", model.ShortID(t.ID), unchangedMsg)
	}
}
