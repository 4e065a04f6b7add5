// Package habits tracks daily habits with streaks and a weekly completion
// rate.
package habits

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/stats"
	"tableflip.dev/widgets/pkg/timeutil"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "habits"

const (
	ActionAdd    = "add"
	ActionCheck  = "check"
	ActionDelete = "delete"
	ActionRename = "rename"
)

// KeepDays bounds how much completion history is retained.
const KeepDays = 400

// RateWindow is the trailing window for the completion rate, ending yesterday.
const RateWindow = 7

// Habit is a named daily practice with the set of days it was done.
type Habit struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	Done      map[string]bool `json:"done"`
}

// State is the persisted blob.
type State struct {
	Habits []Habit `json:"habits"`
	// Pruned is the day key of the last history prune.
	Pruned string `json:"pruned,omitempty"`
}

// Definition wires habit tracking into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Habits",
		Version:   1,
		Default:   func() State { return State{Habits: []Habit{}} },
		Normalize: normalize,
		Housekeep: Housekeep,
		Reduce:    Reduce,
		View:      View,
		Actions: []widget.ActionSpec{
			{Type: ActionAdd, Help: "track a new habit", Input: widget.InputText},
			{Type: ActionCheck, Help: "toggle today's completion", Input: widget.InputID, Row: true},
			{Type: ActionRename, Help: "rename a habit", Input: widget.InputText, Row: true},
			{Type: ActionDelete, Help: "stop tracking a habit", Input: widget.InputID, Row: true},
		},
	}
}

func normalize(s State) State {
	seen := make(map[string]bool, len(s.Habits))
	out := make([]Habit, 0, len(s.Habits))
	for _, h := range s.Habits {
		if h.ID == "" || strings.TrimSpace(h.Name) == "" || seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		if h.Done == nil {
			h.Done = map[string]bool{}
		}
		out = append(out, h)
	}
	s.Habits = out
	return s
}

// Housekeep drops completions older than KeepDays, at most once a day.
func Housekeep(s State, now time.Time) (State, bool) {
	today := timeutil.DayKey(now)
	if s.Pruned == today {
		return s, false
	}
	next := State{Habits: make([]Habit, len(s.Habits)), Pruned: today}
	for i, h := range s.Habits {
		done := make(map[string]bool, len(h.Done))
		for day, ok := range h.Done {
			if ok && timeutil.Within(day, now, KeepDays) {
				done[day] = true
			}
		}
		h.Done = done
		next.Habits[i] = h
	}
	return next, true
}

// Reduce applies one action.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionAdd:
		name, err := widget.RequireText(a.Text, "Name the habit")
		if err != nil {
			return s, err
		}
		for _, h := range s.Habits {
			if strings.EqualFold(h.Name, name) {
				return s, widget.Invalid("%q is already tracked", name)
			}
		}
		h := Habit{ID: env.NewID(), Name: name, CreatedAt: env.Now, Done: map[string]bool{}}
		s.Habits = append(slices.Clone(s.Habits), h)
		return s, nil

	case ActionCheck:
		today := timeutil.DayKey(env.Now)
		return update(s, a.ID, func(h *Habit) error {
			done := make(map[string]bool, len(h.Done)+1)
			for k, v := range h.Done {
				done[k] = v
			}
			if done[today] {
				delete(done, today)
			} else {
				done[today] = true
			}
			h.Done = done
			return nil
		})

	case ActionRename:
		name, err := widget.RequireText(a.Text, "Name the habit")
		if err != nil {
			return s, err
		}
		return update(s, a.ID, func(h *Habit) error {
			if h.Name == name {
				return widget.ErrNoChange
			}
			h.Name = name
			return nil
		})

	case ActionDelete:
		i := slices.IndexFunc(s.Habits, func(h Habit) bool { return h.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		s.Habits = slices.Delete(slices.Clone(s.Habits), i, i+1)
		return s, nil
	}
	return s, widget.Unknown(a)
}

func update(s State, id string, fn func(*Habit) error) (State, error) {
	i := slices.IndexFunc(s.Habits, func(h Habit) bool { return h.ID == id })
	if i < 0 {
		return s, widget.ErrNoChange
	}
	habits := slices.Clone(s.Habits)
	if err := fn(&habits[i]); err != nil {
		return s, err
	}
	s.Habits = habits
	return s, nil
}

// Streak is the habit's current run of consecutive days.
func (h Habit) Streak(now time.Time) int {
	return timeutil.Streak(h.Done, now)
}

// Rate is the completion rate over the last RateWindow days, excluding today.
func (h Habit) Rate(now time.Time) stats.Ratio {
	return stats.CompletionRate(h.Done, now, RateWindow)
}

// View renders each habit with its streak and weekly rate.
func View(s State, ui widget.UIState, now time.Time) widget.View {
	today := timeutil.DayKey(now)
	v := widget.View{
		Forms:      []widget.Form{{Action: ActionAdd, Field: widget.InputText, Label: "Add", Placeholder: "New habit"}},
		RowActions: []widget.Button{{Action: ActionCheck, Label: "Today"}, {Action: ActionDelete, Label: "Delete"}},
		Rows:       []widget.Row{},
	}
	doneToday := 0
	for _, h := range s.Habits {
		if h.Done[today] {
			doneToday++
		}
		if !render.Matches(ui.Query, h.Name) {
			continue
		}
		v.Rows = append(v.Rows, widget.Row{
			ID:     h.ID,
			Label:  h.Name,
			Detail: fmt.Sprintf("%d day streak · %s this week", h.Streak(now), h.Rate(now)),
			Done:   h.Done[today],
		})
	}
	pct := stats.Percentage(float64(doneToday), float64(len(s.Habits)))
	v.Stats = []widget.Stat{{Label: "Today", Value: fmt.Sprintf("%d/%d", doneToday, len(s.Habits)), Bar: pct.Bar()}}
	if len(s.Habits) == 0 {
		v.Empty = "No habits yet. Start one above."
	} else {
		v.Empty = fmt.Sprintf("No habits match %q.", ui.Query)
	}
	return v
}
