package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/ops"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks in the order they were added.

By default only active tasks are shown (see default_view in .tdconfig.yaml).

Examples:
  td list
  td list --done
  td list --all`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listDone bool
	listAll  bool
)

func init() {
	listCmd.Flags().BoolVar(&listDone, "done", false, "show completed tasks")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "show all tasks")
	listCmd.MarkFlagsMutuallyExclusive("done", "all")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	view, ok := model.ParseView(a.cfg.DefaultView)
	if !ok {
		view = model.ViewActive
	}
	switch {
	case listAll:
		view = model.ViewAll
	case listDone:
		view = model.ViewDone
	}

	cli.RenderTasks(os.Stdout, ops.ListTasks(a.store, view))
	if view == model.ViewAll {
		fmt.Println()
		fmt.Println(cli.Gray(cli.StatusLine(a.store.GetAll())))
	}
	return nil
}
