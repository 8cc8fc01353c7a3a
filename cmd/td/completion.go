package main

import (
	"os"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/model"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for td.

To load completions:

Bash:
  $ source <(td completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ td completion bash > /etc/bash_completion.d/td
  # macOS:
  $ td completion bash > $(brew --prefix)/etc/bash_completion.d/td

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ td completion zsh > "${fpath[1]}/_td"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ td completion fish | source
  # To load completions for each session, execute once:
  $ td completion fish > ~/.config/fish/completions/td.fish
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// completeTaskIDs offers the IDs of tasks starting with toComplete, with a
// checkbox and title as the description.
func completeTaskIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer a.close()

	tasks := a.store.GetAll()
	return taskCompletions(tasks, toComplete, args), cobra.ShellCompDirectiveNoFileComp
}

// taskCompletions skips tasks already named in args.
func taskCompletions(tasks []model.Task, toComplete string, args []string) []string {
	used := make(map[string]bool, len(args))
	for _, arg := range args {
		if id, err := model.MatchID(tasks, arg); err == nil {
			used[id] = true
		}
	}

	var completions []string
	for _, id := range model.MatchingIDs(tasks, toComplete) {
		if used[id] {
			continue
		}
		t := tasks[model.IndexOf(tasks, id)]
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		completions = append(completions, id+"\t"+box+" "+cli.Truncate(t.Title, 50))
	}
	return completions
}
