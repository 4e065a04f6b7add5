package habits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/timeutil"
	"tableflip.dev/widgets/pkg/widget"
)

var day = time.Date(2025, time.April, 20, 8, 0, 0, 0, time.Local)

func env(now time.Time) widget.Env {
	n := 0
	return widget.Env{Now: now, NewID: func() string { n++; return "h" + string(rune('0'+n)) }}
}

func TestAddCheckStreak(t *testing.T) {
	s := Definition().Default()
	s, err := Reduce(s, widget.Action{Type: ActionAdd, Text: "Read"}, env(day))
	require.NoError(t, err)
	require.Len(t, s.Habits, 1)
	id := s.Habits[0].ID

	for i := 2; i >= 0; i-- {
		s, err = Reduce(s, widget.Action{Type: ActionCheck, ID: id}, env(day.AddDate(0, 0, -i)))
		require.NoError(t, err)
	}
	h := s.Habits[0]
	assert.Equal(t, 3, h.Streak(day))
	// today pending keeps the run alive.
	assert.Equal(t, 3, h.Streak(day.AddDate(0, 0, 1)))
	assert.Equal(t, 0, h.Streak(day.AddDate(0, 0, 2)))

	s, err = Reduce(s, widget.Action{Type: ActionCheck, ID: id}, env(day))
	require.NoError(t, err)
	assert.False(t, s.Habits[0].Done[timeutil.DayKey(day)])
	assert.True(t, h.Done[timeutil.DayKey(day)], "reducer must not mutate the previous state")
}

func TestRateExcludesToday(t *testing.T) {
	h := Habit{Done: map[string]bool{}}
	for i := 0; i <= 7; i++ {
		h.Done[timeutil.DayKey(day.AddDate(0, 0, -i))] = true
	}
	assert.Equal(t, "100%", h.Rate(day).String())

	delete(h.Done, timeutil.DayKey(day))
	assert.Equal(t, "100%", h.Rate(day).String())
	delete(h.Done, timeutil.DayKey(day.AddDate(0, 0, -1)))
	assert.InDelta(t, 85.71, h.Rate(day).Raw(), 0.01)
}

func TestValidation(t *testing.T) {
	s, err := Reduce(State{}, widget.Action{Type: ActionAdd, Text: "Run"}, env(day))
	require.NoError(t, err)

	_, err = Reduce(s, widget.Action{Type: ActionAdd, Text: "  "}, env(day))
	var verr *widget.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = Reduce(s, widget.Action{Type: ActionAdd, Text: "run"}, env(day))
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, `"run" is already tracked`, verr.Message)

	_, err = Reduce(s, widget.Action{Type: ActionCheck, ID: "nope"}, env(day))
	assert.ErrorIs(t, err, widget.ErrNoChange)
}

func TestPruneOnLoad(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seed := widget.New(Definition(), st, widget.WithClock(func() time.Time { return day.AddDate(-2, 0, 0) }))
	require.NoError(t, seed.Load(ctx))
	_, err := seed.Dispatch(ctx, widget.Action{Type: ActionAdd, Text: "Stretch"})
	require.NoError(t, err)
	id := seed.State().Habits[0].ID
	_, err = seed.Dispatch(ctx, widget.Action{Type: ActionCheck, ID: id})
	require.NoError(t, err)

	c := widget.New(Definition(), st, widget.WithClock(func() time.Time { return day }))
	require.NoError(t, c.Load(ctx))
	assert.Empty(t, c.State().Habits[0].Done)
	assert.Equal(t, timeutil.DayKey(day), c.State().Pruned)

	before := st.SetCalls()
	_, err = c.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, st.SetCalls(), "pruning runs at most once per day")
}

func TestView(t *testing.T) {
	s := State{Habits: []Habit{
		{ID: "a", Name: "Read", Done: map[string]bool{timeutil.DayKey(day): true}},
		{ID: "b", Name: "Run", Done: map[string]bool{}},
	}}
	v := View(s, widget.UIState{}, day)
	require.Len(t, v.Rows, 2)
	assert.True(t, v.Rows[0].Done)
	assert.Equal(t, "1 day streak · 0% this week", v.Rows[0].Detail)
	assert.Equal(t, "1/2", v.Stats[0].Value)
	assert.Equal(t, 50, v.Stats[0].Bar)

	v = View(s, widget.UIState{Query: "RU"}, day)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Run", v.Rows[0].Label)

	v = View(State{}, widget.UIState{}, day)
	assert.Equal(t, "No habits yet. Start one above.", v.Empty)
	assert.Equal(t, 0, v.Stats[0].Bar)
}
