// Package main is the entry point for the td CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacksmith/td/internal/cli"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "td",
	Short: "td - a small to-do list for the terminal",
	Long: `td keeps a single to-do list in a .td/ directory next to your work.

Tasks have a title, an optional description, and are either active or done.
Every change is saved in the background; run 'td init' once to get started,
or 'td shell' for an interactive session.

IDs can be abbreviated to any unique prefix, like git hashes.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// rootDir is the directory containing .td/.
var rootDir string

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "C", ".", "directory containing .td/")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("td version {{.Version}}\n")
}
