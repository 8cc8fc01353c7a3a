package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/ops"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <text>",
	Short: "Search tasks",
	Long: `Search titles and descriptions of all tasks, ignoring case.

Examples:
  td find milk
  td find "corner shop"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	query := strings.Join(args, " ")
	found := ops.FindTasks(a.store, query)
	if len(found) == 0 {
		fmt.Printf("No tasks matching %q.\n", query)
		return nil
	}
	cli.RenderTasks(os.Stdout, found)
	return nil
}
