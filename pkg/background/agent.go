// Package background is the long-lived side of the widgets: it keeps badge
// text and rings alarms after the popup that armed them has closed.
package background

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/widget"
)

// Namespace is where the agent persists its own state.
const Namespace = "background"

// Alarm is an armed one-shot reminder.
type Alarm struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// State is everything the agent remembers across restarts.
type State struct {
	Badges map[string]string `json:"badges"`
	Alarms map[string]Alarm  `json:"alarms"`
}

const actionFired = "alarm-fired"

func definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:    Namespace,
		Title:   "Background",
		Version: 1,
		Default: func() State {
			return State{Badges: map[string]string{}, Alarms: map[string]Alarm{}}
		},
		Normalize: func(s State) State {
			if s.Badges == nil {
				s.Badges = map[string]string{}
			}
			if s.Alarms == nil {
				s.Alarms = map[string]Alarm{}
			}
			return s
		},
		Reduce: reduce,
		View: func(s State, _ widget.UIState, _ time.Time) widget.View {
			v := widget.View{Empty: "Nothing pending."}
			for name, a := range s.Alarms {
				v.Rows = append(v.Rows, widget.Row{ID: name, Label: a.Text, Detail: a.At.Local().Format(time.Kitchen)})
			}
			return v
		},
	}
}

// reduce folds a notice, encoded as an Action, into the agent state. ID is the
// source widget, Text the payload and Value the alarm time.
func reduce(s State, a widget.Action, _ widget.Env) (State, error) {
	switch a.Type {
	case widget.NoticeBadge:
		if s.Badges[a.ID] == a.Text {
			return s, widget.ErrNoChange
		}
		badges := clone(s.Badges)
		if a.Text == "" {
			delete(badges, a.ID)
		} else {
			badges[a.ID] = a.Text
		}
		s.Badges = badges
		return s, nil

	case widget.NoticeAlarmStart:
		at, err := time.Parse(time.RFC3339Nano, a.Value)
		if err != nil {
			return s, widget.Invalid("bad alarm time %q", a.Value)
		}
		alarms := clone(s.Alarms)
		alarms[a.ID] = Alarm{At: at, Text: a.Text}
		s.Alarms = alarms
		return s, nil

	case widget.NoticeAlarmCancel, actionFired:
		if _, ok := s.Alarms[a.ID]; !ok {
			return s, widget.ErrNoChange
		}
		alarms := clone(s.Alarms)
		delete(alarms, a.ID)
		s.Alarms = alarms
		return s, nil
	}
	return s, widget.Unknown(a)
}

func clone[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Ring is called when an alarm fires.
type Ring func(widgetName string, a Alarm)

// Option configures an Agent.
type Option func(*Agent)

// WithRing sets the alarm callback. The default logs the alarm.
func WithRing(fn Ring) Option {
	return func(a *Agent) { a.ring = fn }
}

// WithLogger sets the agent logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(a *Agent) { a.clock = clock }
}

// Agent consumes notices and owns the alarm timers.
type Agent struct {
	state  *widget.Controller[State]
	ring   Ring
	logger *log.Logger
	clock  func() time.Time

	mu     sync.Mutex
	timers map[string]armed
	seq    uint64
	ctx    context.Context
}

// armed is a live timer and the arm call that created it.
type armed struct {
	timer *time.Timer
	seq   uint64
}

// New returns an agent persisting to st.
func New(st store.StateStore, opts ...Option) *Agent {
	a := &Agent{
		logger: log.New(os.Stderr, "background: ", log.LstdFlags),
		clock:  time.Now,
		timers: make(map[string]armed),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.ring == nil {
		a.ring = func(name string, al Alarm) { a.logger.Printf("%s: %s", name, al.Text) }
	}
	a.state = widget.New(definition(), st, widget.WithLogger(a.logger), widget.WithClock(a.clock))
	return a
}

// Start loads persisted state and re-arms alarms. Alarms already due fire
// right away.
func (a *Agent) Start(ctx context.Context) error {
	if err := a.state.Load(ctx); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
	for name, al := range a.state.State().Alarms {
		a.arm(name, al)
	}
	return nil
}

// Run starts the agent and applies notices from ob until ctx is done. All
// timers are stopped on return.
func (a *Agent) Run(ctx context.Context, ob *widget.Outbox) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer a.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-ob.C():
			if err := a.Apply(ctx, n); err != nil {
				a.logger.Printf("apply %s from %s: %v", n.Kind, n.Widget, err)
			}
		}
	}
}

// Apply handles one notice.
func (a *Agent) Apply(ctx context.Context, n widget.Notice) error {
	act := widget.Action{Type: n.Kind, ID: n.Widget, Text: n.Text}
	if n.Kind == widget.NoticeAlarmStart {
		act.Value = n.At.Format(time.RFC3339Nano)
	}
	res, err := a.state.Dispatch(ctx, act)
	if err != nil {
		return err
	}
	if res.Rejected {
		return fmt.Errorf("background: %s", res.Feedback)
	}
	switch n.Kind {
	case widget.NoticeAlarmStart:
		a.arm(n.Widget, Alarm{At: n.At, Text: n.Text})
	case widget.NoticeAlarmCancel:
		a.disarm(n.Widget)
	}
	return nil
}

func (a *Agent) arm(name string, al Alarm) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.timers[name]; ok {
		t.timer.Stop()
	}
	a.seq++
	seq := a.seq
	wait := max(0, al.At.Sub(a.clock()))
	a.timers[name] = armed{timer: time.AfterFunc(wait, func() { a.fire(name, al, seq) }), seq: seq}
}

func (a *Agent) disarm(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.timers[name]; ok {
		t.timer.Stop()
		delete(a.timers, name)
	}
}

func (a *Agent) fire(name string, al Alarm, seq uint64) {
	a.mu.Lock()
	ctx := a.ctx
	if t, ok := a.timers[name]; ok && t.seq == seq {
		delete(a.timers, name)
	}
	a.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	current, ok := a.state.State().Alarms[name]
	if !ok || !current.At.Equal(al.At) {
		// superseded by a later start
		return
	}
	if _, err := a.state.Dispatch(ctx, widget.Action{Type: actionFired, ID: name}); err != nil {
		a.logger.Printf("clear alarm %s: %v", name, err)
	}
	a.ring(name, al)
}

// Stop cancels every pending timer. Persisted alarms are re-armed by the next
// Start.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for name, t := range a.timers {
		t.timer.Stop()
		delete(a.timers, name)
	}
}

// Badges returns badge text per widget.
func (a *Agent) Badges() map[string]string {
	return clone(a.state.State().Badges)
}

// Alarms returns the armed alarms per widget.
func (a *Agent) Alarms() map[string]Alarm {
	return clone(a.state.State().Alarms)
}

// Pending reports how many timers are live.
func (a *Agent) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.timers)
}
