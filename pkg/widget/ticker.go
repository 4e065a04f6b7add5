package widget

import (
	"context"
	"time"
)

// RunTicker drives a time-based widget: every TickInterval it runs
// housekeeping and hands a fresh View to onFrame. It returns when ctx is done
// and always stops its timer. Widgets without an interval return immediately.
func RunTicker(ctx context.Context, w Widget, onFrame func(View)) {
	interval := w.TickInterval()
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// Tick errors are already logged by the controller.
			_, _ = w.Tick(ctx)
			if onFrame != nil {
				onFrame(w.View())
			}
		}
	}
}
