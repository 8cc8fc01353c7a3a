package main

import (
	"fmt"
	"strings"

	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/ops"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new task to the end of the list.

Multiple arguments are joined with spaces, so quoting is optional.

Examples:
  td add "Buy milk"
  td add Buy milk -d "2%, the blue carton"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addDescription string

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	task, err := ops.AddTask(a.store, strings.Join(args, " "), addDescription)
	if err != nil {
		return err
	}

	fmt.Printf("Added %s %s\n", model.ShortID(task.ID), task.Title)
	return nil
}
