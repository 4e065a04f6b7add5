package commands

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/host"
	"tableflip.dev/widgets/pkg/store"
)

func addServe(topLevel *cobra.Command) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the widget popups over HTTP",
		Long: `Serve every widget as a popup page with form actions, a JSON API under
/api and Prometheus metrics on /metrics. The background agent keeps badges
and rings alarms while the server runs.`,
		Example: `
widgets serve
widgets serve --addr 127.0.0.1:9000
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := openSession()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = s.cfg.ListenAddr()
			}

			logger := log.New(os.Stderr, "widgets: ", log.LstdFlags)
			agent := s.runAgent(ctx)
			go reloadOnChange(ctx, s.set, s.watch(ctx), logger)

			h := host.New(s.set, host.WithBadges(agent), host.WithLogger(logger))
			return h.Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to host.addr from config)")

	topLevel.AddCommand(cmd)
}

// reloadOnChange re-reads loaded widgets written by other processes.
func reloadOnChange(ctx context.Context, set *catalog.Set, events <-chan store.Event, logger *log.Logger) {
	if events == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			names := []string{ev.Key}
			if ev.Key == "" {
				names = catalog.Names()
			}
			for _, name := range names {
				if err := set.Reload(ctx, name); err != nil {
					logger.Printf("reload %s: %v", name, err)
				}
			}
		}
	}
}
