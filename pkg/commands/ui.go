package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/catalog"
	teaui "tableflip.dev/widgets/pkg/runner/tea"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui [widget...]",
		Short: "open the popup for one or more widgets",
		Example: `
widgets ui
widgets ui tasks habits
`,
		ValidArgs: catalog.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := openSession()
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = catalog.Names()
			}

			// alarms ring while the popup is open
			s.runAgent(ctx)

			return teaui.Run(ctx, s.set, names, teaui.WithEvents(s.watch(ctx)))
		},
	}

	topLevel.AddCommand(cmd)
}
