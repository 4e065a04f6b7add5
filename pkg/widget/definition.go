package widget

import (
	"encoding/json"
	"time"
)

// Definition describes one widget: its namespace, schema and behavior. A
// Controller instantiates it against a StateStore.
type Definition[S any] struct {
	// Name is the namespace key the whole state blob is stored under.
	Name  string
	Title string
	// Version is the current schema version written into the envelope.
	Version int

	Default func() S
	// Migrate decodes a payload written with an older (or legacy, 0) schema
	// version. When nil the payload is decoded directly into Default().
	Migrate func(version int, data json.RawMessage) (S, error)
	// Normalize fills defaults and coerces out-of-range fields after decode.
	Normalize func(S) S
	// Housekeep applies due time-based maintenance (rollover, pruning). It
	// runs once at load and on every tick; changed reports whether to persist.
	Housekeep func(s S, now time.Time) (next S, changed bool)

	Reduce func(s S, a Action, env Env) (S, error)
	View   func(s S, ui UIState, now time.Time) View
	// Notify derives fire-and-forget notices for the background agent.
	Notify func(prev, next S, a Action, env Env) []Notice

	Actions []ActionSpec
	// Tick is the re-render interval for time-driven widgets. Zero disables it.
	Tick time.Duration
}

func (d Definition[S]) decode(version int, data json.RawMessage) (S, error) {
	if d.Migrate != nil && version != d.Version {
		return d.Migrate(version, data)
	}
	s := d.Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return d.Default(), err
	}
	return s, nil
}

func (d Definition[S]) normalize(s S) S {
	if d.Normalize == nil {
		return s
	}
	return d.Normalize(s)
}

func (d Definition[S]) housekeep(s S, now time.Time) (S, bool) {
	if d.Housekeep == nil {
		return s, false
	}
	return d.Housekeep(s, now)
}
