package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/ops"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Long: `Show every field of a task, including its full description.

Examples:
  td show 3f2a
  td show 3f2a9c1e-5b7d-4c1a-9f0e-2d8b6a4c3e1f`,
	Args:              cobra.ExactArgs(1),
	RunE:              runShow,
	ValidArgsFunction: completeTaskIDs,
}

var shareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Print a task as plain text for sharing",
	Long: `Print a task as a plain-text checklist item, without colors,
ready to paste into a message or document.

Examples:
  td share 3f2a | pbcopy`,
	Args:              cobra.ExactArgs(1),
	RunE:              runShare,
	ValidArgsFunction: completeTaskIDs,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(shareCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	task, err := ops.ResolveTask(a.store, args[0])
	if err != nil {
		return err
	}
	cli.RenderTask(os.Stdout, task)
	return nil
}

func runShare(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	task, err := ops.ResolveTask(a.store, args[0])
	if err != nil {
		return err
	}
	fmt.Print(cli.ShareText(task))
	return nil
}
