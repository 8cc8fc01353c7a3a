package main

import (
	"fmt"

	"github.com/jacksmith/td/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new td workspace",
	Long: `Create a .td/ directory in the current directory (or --dir).

Settings are read from an optional .tdconfig.yaml next to .td/, for example:

  backend: bolt        # file, bolt, sqlite or memory
  default_view: all    # active, done or all
  flush_timeout: 5s

Fails if .td/ already exists.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := storage.Init(rootDir); err != nil {
		return err
	}
	fmt.Printf("Initialized td in .td/\n")
	return nil
}
