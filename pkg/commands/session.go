package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"tableflip.dev/widgets/pkg/background"
	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/widget"
)

// session wires config, store, widgets and the notice outbox for one command.
type session struct {
	cfg    store.Config
	store  store.StateStore
	set    *catalog.Set
	outbox *widget.Outbox
}

func openSession() (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	ob := widget.NewOutbox(64)
	return &session{
		cfg:    cfg,
		store:  st,
		set:    catalog.NewSet(st, widget.WithOutbox(ob)),
		outbox: ob,
	}, nil
}

// flush hands queued notices to the background state so badges and alarms
// survive one-shot commands. Failures only warn.
func (s *session) flush(ctx context.Context) {
	notices := s.outbox.Drain()
	if len(notices) == 0 {
		return
	}
	agent := background.New(s.store)
	if err := agent.Start(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	defer agent.Stop()
	for _, n := range notices {
		if err := agent.Apply(ctx, n); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "warning: %s notice from %s: %v\n", n.Kind, n.Widget, err)
		}
	}
}

// runAgent consumes the outbox in the background until ctx is done. The
// returned agent reports badges.
func (s *session) runAgent(ctx context.Context) *background.Agent {
	logger := log.New(os.Stderr, "background: ", log.LstdFlags)
	agent := background.New(s.store, background.WithLogger(logger))
	go func() {
		if err := agent.Run(ctx, s.outbox); err != nil {
			logger.Printf("stopped: %v", err)
		}
	}()
	return agent
}

// watch returns store change events when the backend supports them.
func (s *session) watch(ctx context.Context) <-chan store.Event {
	w, ok := s.store.(store.Watcher)
	if !ok {
		return nil
	}
	events, err := w.Watch(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "warning: watch: %v\n", err)
		return nil
	}
	return events
}

func widgetCompletions(toComplete string) []string {
	var out []string
	for _, n := range catalog.Names() {
		if strings.HasPrefix(n, toComplete) {
			out = append(out, n)
		}
	}
	return out
}
