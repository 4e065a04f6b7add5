// Package widget implements the generic local widget controller: load state
// from a namespace, reduce user actions into new state, persist the whole
// blob, and project state into a View.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"tableflip.dev/widgets/pkg/ids"
	"tableflip.dev/widgets/pkg/store"
)

// DefaultFeedback is how long a rejection message stays visible.
const DefaultFeedback = 1500 * time.Millisecond

// Widget is the type-erased surface of a Controller used by hosts, printers
// and the TUI.
type Widget interface {
	Name() string
	Title() string
	Load(ctx context.Context) error
	Dispatch(ctx context.Context, a Action) (Result, error)
	Tick(ctx context.Context) (bool, error)
	View() View
	SetUI(ui UIState)
	UI() UIState
	Actions() []ActionSpec
	TickInterval() time.Duration
}

// Result reports what a Dispatch did.
type Result struct {
	Changed  bool   `json:"changed"`
	Rejected bool   `json:"rejected,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	clock    func() time.Time
	logger   *log.Logger
	outbox   *Outbox
	rand     *rand.Rand
	feedback time.Duration
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger sets the logger used for storage and decode problems.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOutbox routes notices to the background agent.
func WithOutbox(ob *Outbox) Option {
	return func(o *options) { o.outbox = ob }
}

// WithRand seeds randomness for reducers that shuffle.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithFeedback overrides how long rejection messages stay visible.
func WithFeedback(d time.Duration) Option {
	return func(o *options) { o.feedback = d }
}

// Controller owns the in-memory state of one widget session and is the only
// writer of its namespace. All methods serialize, so actions apply in the
// order they arrive.
type Controller[S any] struct {
	mu sync.Mutex

	def   Definition[S]
	store store.StateStore
	opts  options
	ids   ids.Generator

	state  S
	loaded bool
	ui     UIState

	feedback      string
	feedbackUntil time.Time
}

var _ Widget = (*Controller[struct{}])(nil)

// New creates a controller for def against st. Call Load before use.
func New[S any](def Definition[S], st store.StateStore, opts ...Option) *Controller[S] {
	o := options{
		clock:    time.Now,
		feedback: DefaultFeedback,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(os.Stderr, def.Name+": ", log.LstdFlags)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(o.clock().UnixNano()))
	}
	c := &Controller[S]{def: def, store: st, opts: o}
	c.ids = ids.Generator{Clock: o.clock}
	c.state = def.Default()
	return c
}

// Name implements Widget.
func (c *Controller[S]) Name() string { return c.def.Name }

// Title implements Widget.
func (c *Controller[S]) Title() string { return c.def.Title }

// Actions implements Widget.
func (c *Controller[S]) Actions() []ActionSpec { return c.def.Actions }

// TickInterval implements Widget.
func (c *Controller[S]) TickInterval() time.Duration { return c.def.Tick }

// Load reads the namespace, decodes or defaults it, applies normalization and
// any due housekeeping. Housekeeping changes are persisted immediately.
func (c *Controller[S]) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok, err := c.store.Get(ctx, c.def.Name)
	if err != nil {
		c.loaded = false
		return fmt.Errorf("widget: load %s: %w", c.def.Name, err)
	}

	state := c.def.Default()
	if ok {
		version, data := decodeEnvelope(raw)
		decoded, err := c.def.decode(version, data)
		if err != nil {
			c.opts.logger.Printf("discarding malformed state (version %d): %v", version, err)
		} else {
			state = decoded
		}
	}
	state = c.def.normalize(state)

	now := c.opts.clock()
	state, changed := c.def.housekeep(state, now)
	c.state = state
	c.loaded = true
	if changed {
		return c.persist(ctx, now)
	}
	return nil
}

// Dispatch applies a to the state. Rejected input leaves state untouched and
// sets transient feedback; storage failures keep the new in-memory state and
// are returned.
func (c *Controller[S]) Dispatch(ctx context.Context, a Action) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return Result{}, ErrNotLoaded
	}

	now := c.opts.clock()
	env := c.env(now)
	next, err := c.def.Reduce(c.state, a, env)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, ErrNoChange):
			return Result{}, nil
		case errors.As(err, &verr):
			c.feedback = verr.Message
			c.feedbackUntil = now.Add(c.opts.feedback)
			return Result{Rejected: true, Feedback: verr.Message}, nil
		default:
			return Result{}, err
		}
	}

	prev := c.state
	c.state = c.def.normalize(next)
	c.feedback = ""
	err = c.persist(ctx, now)
	c.notify(prev, a, env)
	return Result{Changed: true}, err
}

// Tick runs housekeeping against the current time and persists if anything
// changed.
func (c *Controller[S]) Tick(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return false, ErrNotLoaded
	}
	now := c.opts.clock()
	next, changed := c.def.housekeep(c.state, now)
	if !changed {
		return false, nil
	}
	prev := c.state
	c.state = next
	err := c.persist(ctx, now)
	c.notify(prev, Action{Type: "tick"}, c.env(now))
	return true, err
}

// View implements Widget.
func (c *Controller[S]) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.clock()
	v := c.def.View(c.state, c.ui, now)
	v.Widget = c.def.Name
	if v.Title == "" {
		v.Title = c.def.Title
	}
	v.Query = c.ui.Query
	if v.Buttons == nil {
		for _, s := range c.def.Actions {
			if !s.Row && s.Input == InputNone {
				v.Buttons = append(v.Buttons, Button{Action: s.Type, Label: s.Type})
			}
		}
	}
	if c.feedback != "" && now.Before(c.feedbackUntil) {
		v.Feedback = c.feedback
	}
	return v
}

// State returns the current in-memory state. Callers must not mutate it.
func (c *Controller[S]) State() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetUI implements Widget.
func (c *Controller[S]) SetUI(ui UIState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui = ui
}

// UI implements Widget.
func (c *Controller[S]) UI() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui
}

func (c *Controller[S]) env(now time.Time) Env {
	return Env{Now: now, NewID: c.ids.Next, Rand: c.opts.rand}
}

func (c *Controller[S]) persist(ctx context.Context, now time.Time) error {
	blob, err := encodeEnvelope(c.def.Version, now, c.state)
	if err != nil {
		c.opts.logger.Printf("encode state: %v", err)
		return fmt.Errorf("widget: encode %s: %w", c.def.Name, err)
	}
	if err := c.store.Set(ctx, c.def.Name, blob); err != nil {
		c.opts.logger.Printf("save state: %v", err)
		return fmt.Errorf("widget: save %s: %w", c.def.Name, err)
	}
	return nil
}

func (c *Controller[S]) notify(prev S, a Action, env Env) {
	if c.def.Notify == nil || c.opts.outbox == nil {
		return
	}
	for _, n := range c.def.Notify(prev, c.state, a, env) {
		if n.Widget == "" {
			n.Widget = c.def.Name
		}
		if n.At.IsZero() {
			n.At = env.Now
		}
		if !c.opts.outbox.Post(n) {
			c.opts.logger.Printf("dropped %s notice", n.Kind)
		}
	}
}
