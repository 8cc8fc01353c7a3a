package main

import (
	"fmt"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/model"
	"github.com/jacksmith/td/internal/ops"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task's title or description",
	Long: `Change the title and/or description of a task.

With -i the task is opened in $VISUAL or $EDITOR: the first line is the
title and everything after it is the description.

Examples:
  td edit 3f2a --title "Buy oat milk"
  td edit 3f2a --description ""
  td edit 3f2a -i`,
	Args:              cobra.ExactArgs(1),
	RunE:              runEdit,
	ValidArgsFunction: completeTaskIDs,
}

var (
	editTitle       string
	editDescription string
	editInteractive bool
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "set task title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "set task description")
	editCmd.Flags().BoolVarP(&editInteractive, "interactive", "i", false, "edit in $EDITOR")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	var changes ops.TaskChanges
	if editInteractive {
		task, err := ops.ResolveTask(a.store, args[0])
		if err != nil {
			return err
		}
		title, description, err := cli.EditTask(task.Title, task.Description)
		if err != nil {
			return err
		}
		changes = ops.TaskChanges{Title: &title, Description: &description}
	} else {
		if cmd.Flags().Changed("title") {
			changes.Title = &editTitle
		}
		if cmd.Flags().Changed("description") {
			changes.Description = &editDescription
		}
		if changes.IsEmpty() {
			return fmt.Errorf("nothing to change: use --title, --description or -i")
		}
	}

	task, err := ops.EditTask(a.store, args[0], changes)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s %s\n", model.ShortID(task.ID), task.Title)
	return nil
}
