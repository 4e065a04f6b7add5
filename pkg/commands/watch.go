package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/commands/options"
	"tableflip.dev/widgets/pkg/printers"
	"tableflip.dev/widgets/pkg/widget"
)

func addWatch(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	vo := &options.ViewOptions{}

	cmd := &cobra.Command{
		Use:   "watch <widget>",
		Short: "print a widget again whenever it changes",
		Long: `Reprint the widget when another process writes its state, and on
every tick for time-driven widgets such as the timer.`,
		Example: `
widgets watch timer
widgets watch tasks --query milk
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: catalog.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := openSession()
			if err != nil {
				return err
			}
			w, err := s.set.Get(ctx, args[0])
			if err != nil {
				return err
			}
			ui := w.UI()
			ui.Query = vo.Query
			w.SetUI(ui)

			pp := printers.PrettyPrint{ShowID: io.ShowID}
			frames := make(chan widget.View, 1)
			go widget.RunTicker(ctx, w, func(v widget.View) {
				select {
				case frames <- v:
				default:
				}
			})
			events := s.watch(ctx)

			pp.View(w.View())
			for {
				select {
				case <-ctx.Done():
					return nil
				case v := <-frames:
					clearScreen()
					pp.View(v)
				case ev, ok := <-events:
					if !ok {
						events = nil
						continue
					}
					if ev.Key != "" && ev.Key != w.Name() {
						continue
					}
					if err := s.set.Reload(ctx, w.Name()); err != nil {
						_, _ = color.New(color.FgRed).Fprintf(color.Output, "reload: %v\n", err)
						continue
					}
					clearScreen()
					pp.View(w.View())
				}
			}
		},
	}
	options.AddShowIDArgs(cmd, io)
	options.AddQueryArg(cmd, vo)

	topLevel.AddCommand(cmd)
}

func clearScreen() {
	_, _ = fmt.Fprint(color.Output, "\x1b[H\x1b[2J")
}
