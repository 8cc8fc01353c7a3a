package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jacksmith/td/internal/model"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every task in a machine-readable format",
	Long: `Print the whole task list.

--format json (the default) prints exactly what td stores, a JSON array of
{id, title, description, completed, createdAt}. --format yaml is easier to
read and is not meant to be loaded back.

Examples:
  td dump > backup.json
  td dump --format yaml`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved task list",
	Long: `Remove the saved task list from the configured backend.

On a terminal td asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var (
	dumpFormat string
	resetYes   bool
)

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "json", "output format (json or yaml)")
	dumpCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(resetCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	var render func([]model.Task) ([]byte, error)
	switch dumpFormat {
	case "json":
		render = func(tasks []model.Task) ([]byte, error) {
			blob, err := model.EncodeSnapshot(tasks)
			return []byte(blob + "\n"), err
		}
	case "yaml":
		render = model.MarshalYAML
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", dumpFormat)
	}

	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	out, err := render(a.store.GetAll())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.close()

	n := len(a.store.GetAll())
	if !resetYes && isInteractive() {
		if !confirm(bufio.NewReader(stdin), fmt.Sprintf("Delete all %d saved tasks?", n)) {
			fmt.Println("Nothing deleted.")
			return nil
		}
	}

	if err := a.adapter.Clear(commandContext(cmd)); err != nil {
		return err
	}
	fmt.Printf("Deleted %d tasks from %s storage.\n", n, a.cfg.Backend)
	return nil
}
