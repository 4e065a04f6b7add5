package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/widget"
)

var now = time.Date(2025, time.May, 15, 10, 0, 0, 0, time.Local)

func env(at time.Time) widget.Env {
	n := 0
	return widget.Env{Now: at, NewID: func() string { n++; return at.Format("0102") + "-" + string(rune('a'+n)) }}
}

func TestSpendAgainstBudget(t *testing.T) {
	s := Definition().Default()
	s, err := Reduce(s, widget.Action{Type: ActionSetBudget, Value: "100"}, env(now))
	require.NoError(t, err)
	s, err = Reduce(s, widget.Action{Type: ActionSpend, Value: "12.50", Text: "lunch"}, env(now))
	require.NoError(t, err)
	s, err = Reduce(s, widget.Action{Type: ActionSpend, Value: "$40"}, env(now.AddDate(0, -1, 0)))
	require.NoError(t, err)

	assert.Equal(t, 12.5, Spent(s, now))
	v := View(s, widget.UIState{}, now)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "$12.50 lunch", v.Rows[0].Label)
	assert.Equal(t, "$12.50 of $100.00 · 12%", v.Stats[0].Value)
	assert.Equal(t, 13, v.Stats[0].Bar)
}

func TestOverBudgetClampsBar(t *testing.T) {
	s := State{Monthly: 50, Expenses: []Expense{{ID: "1", Amount: 75, At: now}}}
	v := View(s, widget.UIState{}, now)
	assert.Equal(t, "$75.00 of $50.00 · 150% · over budget", v.Stats[0].Value)
	assert.Equal(t, 100, v.Stats[0].Bar)
	assert.Equal(t, "$0.00", v.Stats[1].Value)
}

func TestNoBudget(t *testing.T) {
	v := View(State{}, widget.UIState{}, now)
	assert.Equal(t, widget.NoBar, v.Stats[0].Bar)
	assert.Equal(t, "No spending this month.", v.Empty)
}

func TestRejectsBadAmounts(t *testing.T) {
	for _, in := range []string{"abc", "", "-3", "0"} {
		_, err := Reduce(State{}, widget.Action{Type: ActionSpend, Value: in}, env(now))
		var verr *widget.ValidationError
		assert.ErrorAs(t, err, &verr, in)
	}
}

func TestDeleteAndReset(t *testing.T) {
	s := State{Expenses: []Expense{
		{ID: "a", Amount: 1, At: now},
		{ID: "b", Amount: 2, At: now.AddDate(0, -2, 0)},
		{ID: "c", Amount: 3, At: now},
	}}
	next, err := Reduce(s, widget.Action{Type: ActionDelete, ID: "a"}, env(now))
	require.NoError(t, err)
	assert.Len(t, next.Expenses, 2)
	assert.Len(t, s.Expenses, 3)

	_, err = Reduce(next, widget.Action{Type: ActionDelete, ID: "a"}, env(now))
	assert.ErrorIs(t, err, widget.ErrNoChange)

	next, err = Reduce(next, widget.Action{Type: ActionReset}, env(now))
	require.NoError(t, err)
	require.Len(t, next.Expenses, 1)
	assert.Equal(t, "b", next.Expenses[0].ID)

	_, err = Reduce(next, widget.Action{Type: ActionReset}, env(now))
	assert.ErrorIs(t, err, widget.ErrNoChange)
}

func TestNormalizeDropsInvalid(t *testing.T) {
	s := normalize(State{Monthly: -1, Expenses: []Expense{{ID: "a", Amount: 1}, {ID: "a", Amount: 2}, {ID: "", Amount: 3}, {ID: "b", Amount: 0}}})
	assert.Equal(t, 0.0, s.Monthly)
	assert.Len(t, s.Expenses, 1)
}
