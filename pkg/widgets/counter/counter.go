// Package counter is a daily tally with an optional goal. At the first load
// or tick of a new day the running count moves into history.
package counter

import (
	"fmt"
	"strconv"
	"time"

	"tableflip.dev/widgets/pkg/stats"
	"tableflip.dev/widgets/pkg/timeutil"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "counter"

const (
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
	ActionSetGoal   = "set-goal"
	ActionReset     = "reset"
)

// HistoryDays is how many past days are retained.
const HistoryDays = 30

// State is the persisted blob. History holds past days by day key.
type State struct {
	Day     string         `json:"day"`
	Count   int            `json:"count"`
	Goal    int            `json:"goal,omitempty"`
	History map[string]int `json:"history"`
}

// Definition wires the counter into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Counter",
		Version:   1,
		Default:   func() State { return State{History: map[string]int{}} },
		Normalize: normalize,
		Housekeep: Rollover,
		Reduce:    Reduce,
		View:      View,
		Notify:    notify,
		Tick:      time.Minute,
		Actions: []widget.ActionSpec{
			{Type: ActionIncrement, Help: "add one"},
			{Type: ActionDecrement, Help: "subtract one, never below zero"},
			{Type: ActionSetGoal, Help: "set a daily goal, 0 clears it", Input: widget.InputValue},
			{Type: ActionReset, Help: "zero today's count"},
		},
	}
}

func normalize(s State) State {
	if s.Count < 0 {
		s.Count = 0
	}
	if s.Goal < 0 {
		s.Goal = 0
	}
	if s.History == nil {
		s.History = map[string]int{}
	}
	return s
}

// Rollover archives the count of a finished day and prunes old history.
func Rollover(s State, now time.Time) (State, bool) {
	today := timeutil.DayKey(now)
	if !timeutil.IsNewDay(s.Day, now) {
		return s, false
	}
	history := make(map[string]int, len(s.History)+1)
	for day, n := range s.History {
		if timeutil.Within(day, now, HistoryDays) && day != today {
			history[day] = n
		}
	}
	if s.Day != "" && s.Count > 0 && timeutil.Within(s.Day, now, HistoryDays) {
		history[s.Day] += s.Count
	}
	return State{Day: today, Goal: s.Goal, History: history}, true
}

// Reduce applies one action. The count never drops below zero.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionIncrement:
		s.Count++
		return s, nil
	case ActionDecrement:
		if s.Count == 0 {
			return s, widget.ErrNoChange
		}
		s.Count--
		return s, nil
	case ActionSetGoal:
		n, err := widget.ParseCount(a.Value, 0, 100000)
		if err != nil {
			return s, err
		}
		if n == s.Goal {
			return s, widget.ErrNoChange
		}
		s.Goal = n
		return s, nil
	case ActionReset:
		if s.Count == 0 {
			return s, widget.ErrNoChange
		}
		s.Count = 0
		return s, nil
	}
	return s, widget.Unknown(a)
}

// WeekAverage is the mean over the seven days before today.
func WeekAverage(s State, now time.Time) float64 {
	return stats.TrailingAverage(s.History, now, 7, false)
}

// View renders today's count, the goal and the trailing average.
func View(s State, _ widget.UIState, now time.Time) widget.View {
	v := widget.View{
		Forms: []widget.Form{{Action: ActionSetGoal, Field: widget.InputValue, Label: "Goal", Placeholder: "8"}},
		Rows:  []widget.Row{},
		Grid:  []string{strconv.Itoa(s.Count)},
	}
	today := widget.Stat{Label: "Today", Value: strconv.Itoa(s.Count), Bar: widget.NoBar}
	if s.Goal > 0 {
		pct := stats.Percentage(float64(s.Count), float64(s.Goal))
		today.Value = fmt.Sprintf("%d/%d · %s", s.Count, s.Goal, pct)
		today.Bar = pct.Bar()
	}
	v.Stats = []widget.Stat{
		today,
		{Label: "7-day avg", Value: fmt.Sprintf("%.1f", WeekAverage(s, now)), Bar: widget.NoBar},
	}
	for i := 1; i <= 7; i++ {
		day := timeutil.ShiftDay(timeutil.DayKey(now), -i)
		n, ok := s.History[day]
		if !ok {
			continue
		}
		v.Rows = append(v.Rows, widget.Row{ID: day, Label: day, Detail: strconv.Itoa(n), Done: s.Goal > 0 && n >= s.Goal})
	}
	v.Empty = "No history yet."
	return v
}

func notify(prev, next State, _ widget.Action, _ widget.Env) []widget.Notice {
	if prev.Count == next.Count {
		return nil
	}
	text := ""
	if next.Count > 0 {
		text = strconv.Itoa(next.Count)
	}
	return []widget.Notice{{Kind: widget.NoticeBadge, Text: text}}
}
