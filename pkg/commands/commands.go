package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "widgets",
		Short: base.Wrap80("Small popup apps (tasks, habits, budget, timers and more) with local state."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addList(topLevel)
	addShow(topLevel)
	addDo(topLevel)
	addUI(topLevel)
	addWatch(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addCopy(topLevel)
	addPaste(topLevel)
	addKey(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}
