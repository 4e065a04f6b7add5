// Package timer is a focus countdown. The background agent rings when a run
// ends even if no popup is open.
package timer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/widgets/pkg/timeutil"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "timer"

const (
	ActionStart  = "start"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionReset  = "reset"
	ActionLabel  = "label"
)

// DefaultLength is used when start has no duration.
const DefaultLength = 25 * time.Minute

// State is the persisted blob. Running and paused are told apart by
// EndsAt and Remaining.
type State struct {
	Label  string        `json:"label,omitempty"`
	Length time.Duration `json:"length"`
	// EndsAt is set while running.
	EndsAt *time.Time `json:"endsAt,omitempty"`
	// Remaining is set while paused.
	Remaining time.Duration `json:"remaining,omitempty"`

	Day      string `json:"day,omitempty"`
	Sessions int    `json:"sessions"`
}

// Running reports whether the countdown is live.
func (s State) Running() bool { return s.EndsAt != nil }

// Paused reports whether a run is suspended.
func (s State) Paused() bool { return s.EndsAt == nil && s.Remaining > 0 }

// Left is the time remaining at now.
func (s State) Left(now time.Time) time.Duration {
	switch {
	case s.Running():
		return max(0, s.EndsAt.Sub(now))
	case s.Paused():
		return s.Remaining
	default:
		return s.Length
	}
}

// Definition wires the countdown into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Timer",
		Version:   1,
		Default:   func() State { return State{Length: DefaultLength} },
		Normalize: normalize,
		Housekeep: Housekeep,
		Reduce:    Reduce,
		View:      View,
		Notify:    notify,
		Tick:      time.Second,
		Actions: []widget.ActionSpec{
			{Type: ActionStart, Help: `start a countdown, e.g. "25m" or "1h30m"`, Input: widget.InputValue},
			{Type: ActionPause, Help: "pause the countdown"},
			{Type: ActionResume, Help: "resume a paused countdown"},
			{Type: ActionReset, Help: "stop and reset"},
			{Type: ActionLabel, Help: "name what you are working on", Input: widget.InputText},
		},
	}
}

func normalize(s State) State {
	if s.Length <= 0 {
		s.Length = DefaultLength
	}
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	return s
}

// Housekeep finishes a run whose end time has passed and resets the session
// count on a new day.
func Housekeep(s State, now time.Time) (State, bool) {
	changed := false
	if timeutil.IsNewDay(s.Day, now) {
		s.Day = timeutil.DayKey(now)
		s.Sessions = 0
		changed = true
	}
	if s.Running() && !now.Before(*s.EndsAt) {
		if timeutil.DayKey(*s.EndsAt) == s.Day {
			s.Sessions++
		}
		s.EndsAt = nil
		s.Remaining = 0
		changed = true
	}
	return s, changed
}

// Reduce applies one action.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionStart:
		length, err := timeutil.ParseSpan(a.Value, s.Length)
		if err != nil {
			return s, widget.Invalid("%q is not a duration", strings.TrimSpace(a.Value))
		}
		if length > 24*time.Hour {
			return s, widget.Invalid("Keep it under a day")
		}
		end := env.Now.Add(length)
		s.Length = length
		s.EndsAt = &end
		s.Remaining = 0
		return s, nil

	case ActionPause:
		if !s.Running() {
			return s, widget.ErrNoChange
		}
		s.Remaining = s.Left(env.Now)
		s.EndsAt = nil
		return s, nil

	case ActionResume:
		if !s.Paused() {
			return s, widget.ErrNoChange
		}
		end := env.Now.Add(s.Remaining)
		s.EndsAt = &end
		s.Remaining = 0
		return s, nil

	case ActionReset:
		if !s.Running() && !s.Paused() {
			return s, widget.ErrNoChange
		}
		s.EndsAt = nil
		s.Remaining = 0
		return s, nil

	case ActionLabel:
		label := strings.TrimSpace(a.Text)
		if label == s.Label {
			return s, widget.ErrNoChange
		}
		s.Label = label
		return s, nil
	}
	return s, widget.Unknown(a)
}

// View renders the remaining time and today's sessions.
func View(s State, _ widget.UIState, now time.Time) widget.View {
	left := s.Left(now)
	status := "Ready"
	switch {
	case s.Running():
		status = "Running"
	case s.Paused():
		status = "Paused"
	}
	elapsed := s.Length - left
	bar := 0
	if s.Length > 0 {
		bar = int(100 * elapsed / s.Length)
	}
	v := widget.View{
		Grid: []string{timeutil.FormatClock(left)},
		Forms: []widget.Form{
			{Action: ActionStart, Field: widget.InputValue, Label: "Start", Placeholder: "25m"},
			{Action: ActionLabel, Field: widget.InputText, Label: "Label", Placeholder: "Focus"},
		},
		Rows: []widget.Row{},
		Stats: []widget.Stat{
			{Label: status, Value: s.Label, Bar: bar},
			{Label: "Sessions today", Value: strconv.Itoa(s.Sessions), Bar: widget.NoBar},
		},
		Empty: fmt.Sprintf("%s of %s", timeutil.FormatClock(elapsed), timeutil.FormatClock(s.Length)),
	}
	return v
}

func notify(prev, next State, a widget.Action, _ widget.Env) []widget.Notice {
	switch {
	case next.Running() && (!prev.Running() || !prev.EndsAt.Equal(*next.EndsAt)):
		text := next.Label
		if text == "" {
			text = "Time is up"
		}
		return []widget.Notice{{Kind: widget.NoticeAlarmStart, Text: text, At: *next.EndsAt}}
	case prev.Running() && !next.Running() && a.Type != "tick":
		return []widget.Notice{{Kind: widget.NoticeAlarmCancel}}
	}
	return nil
}
