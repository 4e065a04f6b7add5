// Package budget tracks spending against a monthly budget.
package budget

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
const Name = "budget"

const (
	ActionSetBudget = "set-budget"
	ActionSpend     = "spend"
	ActionDelete    = "delete"
	ActionReset     = "reset"
)

// Expense is one spend entry.
type Expense struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// State is the persisted blob: the monthly budget and every expense.
type State struct {
	Monthly  float64   `json:"monthly"`
	Expenses []Expense `json:"expenses"`
}

// Definition wires the budget into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Budget",
		Version:   1,
		Default:   func() State { return State{Expenses: []Expense{}} },
		Normalize: normalize,
		Reduce:    Reduce,
		View:      View,
		Actions: []widget.ActionSpec{
			{Type: ActionSetBudget, Help: "set the monthly budget", Input: widget.InputValue},
			{Type: ActionSpend, Help: "record an expense; value is the amount, text an optional note", Input: widget.InputValue},
			{Type: ActionDelete, Help: "remove an expense", Input: widget.InputID, Row: true},
			{Type: ActionReset, Help: "clear this month's expenses"},
		},
	}
}

func normalize(s State) State {
	if s.Monthly < 0 {
		s.Monthly = 0
	}
	out := make([]Expense, 0, len(s.Expenses))
	seen := make(map[string]bool, len(s.Expenses))
	for _, e := range s.Expenses {
		if e.ID == "" || e.Amount <= 0 || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	s.Expenses = out
	return s
}

// Reduce applies one action. Amounts must parse as positive numbers.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionSetBudget:
		v, err := widget.ParseAmount(a.Value)
		if err != nil {
			return s, err
		}
		if v == s.Monthly {
			return s, widget.ErrNoChange
		}
		s.Monthly = v
		return s, nil

	case ActionSpend:
		v, err := widget.ParseAmount(a.Value)
		if err != nil {
			return s, err
		}
		e := Expense{ID: env.NewID(), Amount: v, Note: strings.TrimSpace(a.Text), At: env.Now}
		s.Expenses = append([]Expense{e}, s.Expenses...)
		return s, nil

	case ActionDelete:
		i := slices.IndexFunc(s.Expenses, func(e Expense) bool { return e.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		s.Expenses = slices.Delete(slices.Clone(s.Expenses), i, i+1)
		return s, nil

	case ActionReset:
		month := timeutil.MonthKey(env.Now)
		kept := make([]Expense, 0, len(s.Expenses))
		for _, e := range s.Expenses {
			if timeutil.MonthKey(e.At) != month {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(s.Expenses) {
			return s, widget.ErrNoChange
		}
		s.Expenses = kept
		return s, nil
	}
	return s, widget.Unknown(a)
}

// Spent sums the expenses in now's calendar month.
func Spent(s State, now time.Time) float64 {
	month := timeutil.MonthKey(now)
	total := 0.0
	for _, e := range s.Expenses {
		if timeutil.MonthKey(e.At) == month {
			total += e.Amount
		}
	}
	return total
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// View renders the current month against the budget.
func View(s State, ui widget.UIState, now time.Time) widget.View {
	month := timeutil.MonthKey(now)
	v := widget.View{
		Forms: []widget.Form{
			{Action: ActionSpend, Field: widget.InputValue, Label: "Spend", Placeholder: "12.50"},
			{Action: ActionSetBudget, Field: widget.InputValue, Label: "Budget", Placeholder: "500"},
		},
		RowActions: []widget.Button{{Action: ActionDelete, Label: "Delete"}},
		Rows:       []widget.Row{},
	}
	for _, e := range s.Expenses {
		if timeutil.MonthKey(e.At) != month {
			continue
		}
		label := money(e.Amount)
		if e.Note != "" {
			label += " " + e.Note
		}
		if !render.Matches(ui.Query, label) {
			continue
		}
		v.Rows = append(v.Rows, widget.Row{ID: e.ID, Label: label, Detail: e.At.Local().Format("Jan 2")})
	}

	spent := Spent(s, now)
	if s.Monthly > 0 {
		pct := stats.Percentage(spent, s.Monthly)
		value := fmt.Sprintf("%s of %s · %s", money(spent), money(s.Monthly), pct)
		if pct.Over() {
			value += " · over budget"
		}
		v.Stats = []widget.Stat{
			{Label: "Spent", Value: value, Bar: pct.Bar()},
			{Label: "Left", Value: money(max(0, s.Monthly-spent)), Bar: widget.NoBar},
		}
	} else {
		v.Stats = []widget.Stat{{Label: "Spent", Value: money(spent) + " · no budget set", Bar: widget.NoBar}}
	}
	if ui.Query != "" {
		v.Empty = fmt.Sprintf("No expenses match %q.", ui.Query)
	} else {
		v.Empty = "No spending this month."
	}
	return v
}
