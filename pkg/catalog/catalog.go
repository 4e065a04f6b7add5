// Package catalog names every widget the binary ships and builds controllers
// for them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/widget"
	"tableflip.dev/widgets/pkg/widgets/bookmarks"
	"tableflip.dev/widgets/pkg/widgets/budget"
	"tableflip.dev/widgets/pkg/widgets/clips"
	"tableflip.dev/widgets/pkg/widgets/counter"
	"tableflip.dev/widgets/pkg/widgets/habits"
	"tableflip.dev/widgets/pkg/widgets/palette"
	"tableflip.dev/widgets/pkg/widgets/puzzle"
	"tableflip.dev/widgets/pkg/widgets/qrcode"
	"tableflip.dev/widgets/pkg/widgets/tasks"
	"tableflip.dev/widgets/pkg/widgets/textstyle"
	"tableflip.dev/widgets/pkg/widgets/timer"
)

// ErrUnknown is returned for names that are not registered.
var ErrUnknown = errors.New("catalog: unknown widget")

// Factory builds a controller bound to a store.
type Factory func(st store.StateStore, opts ...widget.Option) widget.Widget

func factory[S any](def func() widget.Definition[S]) Factory {
	return func(st store.StateStore, opts ...widget.Option) widget.Widget {
		return widget.New(def(), st, opts...)
	}
}

var registry = map[string]Factory{
	tasks.Name:     factory(tasks.Definition),
	habits.Name:    factory(habits.Definition),
	budget.Name:    factory(budget.Definition),
	counter.Name:   factory(counter.Definition),
	bookmarks.Name: factory(bookmarks.Definition),
	timer.Name:     factory(timer.Definition),
	palette.Name:   factory(palette.Definition),
	clips.Name:     factory(clips.Definition),
	textstyle.Name: factory(textstyle.Definition),
	puzzle.Name:    factory(puzzle.Definition),
	qrcode.Name:    factory(qrcode.Definition),
}

// Names lists registered widgets alphabetically.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the named widget. It is not loaded yet.
func New(name string, st store.StateStore, opts ...widget.Option) (widget.Widget, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return f(st, opts...), nil
}

// Set keeps one loaded controller per widget for long-running hosts.
type Set struct {
	mu    sync.Mutex
	store store.StateStore
	opts  []widget.Option
	byKey map[string]widget.Widget
}

// NewSet returns an empty set; controllers are created on first use.
func NewSet(st store.StateStore, opts ...widget.Option) *Set {
	return &Set{store: st, opts: opts, byKey: make(map[string]widget.Widget)}
}

// Get returns the loaded controller for name, creating and loading it on
// first use. A failed load is not cached.
func (s *Set) Get(ctx context.Context, name string) (widget.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.byKey[name]; ok {
		return w, nil
	}
	w, err := New(name, s.store, s.opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Load(ctx); err != nil {
		return nil, err
	}
	s.byKey[name] = w
	return w, nil
}

// Reload re-reads name from the store if it is already loaded. Used when
// another process changed the namespace.
func (s *Set) Reload(ctx context.Context, name string) error {
	s.mu.Lock()
	w, ok := s.byKey[name]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return w.Load(ctx)
}

// Loaded lists the controllers created so far, by name.
func (s *Set) Loaded() []widget.Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]widget.Widget, 0, len(s.byKey))
	for _, n := range Names() {
		if w, ok := s.byKey[n]; ok {
			out = append(out, w)
		}
	}
	return out
}
