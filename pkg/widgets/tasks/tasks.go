// Package tasks is a to-do list widget: add, toggle, edit and delete tasks,
// with open tasks listed before completed ones.
package tasks

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/stats"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "tasks"

const (
	ActionAdd       = "add"
	ActionToggle    = "toggle"
	ActionEdit      = "edit"
	ActionDelete    = "delete"
	ActionClearDone = "clear-done"
)

// Filter values for UIState.Filter.
const (
	FilterOpen = "open"
	FilterDone = "done"
)

// Task is a single to-do item.
type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	DoneAt    *time.Time `json:"doneAt,omitempty"`
}

// State is the persisted blob. Tasks are kept newest first.
type State struct {
	Tasks []Task `json:"tasks"`
}

// Definition wires the task list into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Tasks",
		Version:   1,
		Default:   func() State { return State{Tasks: []Task{}} },
		Migrate:   migrate,
		Normalize: normalize,
		Reduce:    Reduce,
		View:      View,
		Notify:    notify,
		Actions: []widget.ActionSpec{
			{Type: ActionAdd, Help: "add a task", Input: widget.InputText},
			{Type: ActionToggle, Help: "mark a task done or open", Input: widget.InputID, Row: true},
			{Type: ActionEdit, Help: "change a task's text", Input: widget.InputText, Row: true},
			{Type: ActionDelete, Help: "remove a task", Input: widget.InputID, Row: true},
			{Type: ActionClearDone, Help: "remove every completed task"},
		},
	}
}

// migrate upgrades the legacy format, a bare JSON array of tasks.
func migrate(version int, data json.RawMessage) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var legacy []Task
	if err := json.Unmarshal(data, &legacy); err != nil {
		return State{}, fmt.Errorf("tasks: decode version %d: %w", version, err)
	}
	return State{Tasks: legacy}, nil
}

// normalize drops entries without an id or text and duplicate ids.
func normalize(s State) State {
	seen := make(map[string]bool, len(s.Tasks))
	out := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID == "" || t.Text == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return State{Tasks: out}
}

// Reduce applies one action.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionAdd:
		text, err := widget.RequireText(a.Text, "Enter a task")
		if err != nil {
			return s, err
		}
		task := Task{ID: env.NewID(), Text: text, CreatedAt: env.Now}
		return State{Tasks: append([]Task{task}, s.Tasks...)}, nil

	case ActionToggle:
		return update(s, a.ID, func(t *Task) error {
			t.Completed = !t.Completed
			if t.Completed {
				now := env.Now
				t.DoneAt = &now
			} else {
				t.DoneAt = nil
			}
			return nil
		})

	case ActionEdit:
		text, err := widget.RequireText(a.Text, "Task text can't be empty")
		if err != nil {
			return s, err
		}
		return update(s, a.ID, func(t *Task) error {
			if t.Text == text {
				return widget.ErrNoChange
			}
			t.Text = text
			return nil
		})

	case ActionDelete:
		i := index(s, a.ID)
		if i < 0 {
			return s, widget.ErrNoChange
		}
		return State{Tasks: slices.Delete(slices.Clone(s.Tasks), i, i+1)}, nil

	case ActionClearDone:
		kept := make([]Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if !t.Completed {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(s.Tasks) {
			return s, widget.ErrNoChange
		}
		return State{Tasks: kept}, nil
	}
	return s, widget.Unknown(a)
}

func index(s State, id string) int {
	return slices.IndexFunc(s.Tasks, func(t Task) bool { return t.ID == id })
}

func update(s State, id string, fn func(*Task) error) (State, error) {
	i := index(s, id)
	if i < 0 {
		return s, widget.ErrNoChange
	}
	tasks := slices.Clone(s.Tasks)
	if err := fn(&tasks[i]); err != nil {
		return s, err
	}
	return State{Tasks: tasks}, nil
}

// Sorted returns the tasks with open ones first, each group in stored order.
func Sorted(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		switch {
		case a.Completed == b.Completed:
			return 0
		case a.Completed:
			return 1
		default:
			return -1
		}
	})
	return out
}

// Counts reports completed and total tasks.
func Counts(s State) (done, total int) {
	for _, t := range s.Tasks {
		if t.Completed {
			done++
		}
	}
	return done, len(s.Tasks)
}

// View renders the list.
func View(s State, ui widget.UIState, _ time.Time) widget.View {
	v := widget.View{
		Title: "Tasks",
		Forms: []widget.Form{{Action: ActionAdd, Field: widget.InputText, Label: "Add", Placeholder: "What needs doing?"}},
		RowActions: []widget.Button{
			{Action: ActionToggle, Label: "Done"},
			{Action: ActionDelete, Label: "Delete"},
		},
		Rows: []widget.Row{},
	}

	for _, t := range Sorted(s.Tasks) {
		if ui.Filter == FilterOpen && t.Completed || ui.Filter == FilterDone && !t.Completed {
			continue
		}
		if !render.Matches(ui.Query, t.Text) {
			continue
		}
		v.Rows = append(v.Rows, widget.Row{ID: t.ID, Label: t.Text, Done: t.Completed})
	}

	done, total := Counts(s)
	pct := stats.Percentage(float64(done), float64(total))
	v.Stats = []widget.Stat{{
		Label: "Done",
		Value: fmt.Sprintf("%d/%d · %s", done, total, pct),
		Bar:   pct.Bar(),
	}}

	switch {
	case total == 0:
		v.Empty = "No tasks yet. Add one above."
	case ui.Query != "":
		v.Empty = fmt.Sprintf("No tasks match %q.", ui.Query)
	default:
		v.Empty = "Nothing here."
	}
	return v
}

func notify(prev, next State, _ widget.Action, _ widget.Env) []widget.Notice {
	pd, pt := Counts(prev)
	nd, nt := Counts(next)
	if pt-pd == nt-nd {
		return nil
	}
	text := ""
	if open := nt - nd; open > 0 {
		text = strconv.Itoa(open)
	}
	return []widget.Notice{{Kind: widget.NoticeBadge, Text: text}}
}
