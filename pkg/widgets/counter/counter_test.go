package counter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/widget"
)

func TestRolloverMovesCountIntoHistory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 10, 23, 59, 0, 0, time.Local)
	clock := func() time.Time { return now }
	ob := widget.NewOutbox(8)
	st := store.NewMemory()

	c := widget.New(Definition(), st, widget.WithClock(clock), widget.WithOutbox(ob))
	require.NoError(t, c.Load(ctx))
	for i := 0; i < 3; i++ {
		_, err := c.Dispatch(ctx, widget.Action{Type: ActionIncrement})
		require.NoError(t, err)
	}
	assert.Equal(t, "3", ob.Drain()[2].Text)

	now = now.Add(2 * time.Minute)
	changed, err := c.Tick(ctx)
	require.NoError(t, err)
	require.True(t, changed)

	s := c.State()
	assert.Equal(t, "2025-01-11", s.Day)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, map[string]int{"2025-01-10": 3}, s.History)
	assert.Equal(t, "", ob.Drain()[0].Text, "badge clears at rollover")

	reloaded := widget.New(Definition(), st, widget.WithClock(clock))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s, reloaded.State())
}

func TestRolloverPrunesOldHistory(t *testing.T) {
	now := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.Local)
	s := State{Day: "2025-01-01", Count: 4, History: map[string]int{"2025-01-20": 2, "2025-02-27": 5}}
	next, changed := Rollover(s, now)
	require.True(t, changed)
	assert.Equal(t, map[string]int{"2025-02-27": 5}, next.History)
	assert.Equal(t, 4, s.Count, "input state untouched")
}

func TestDecrementStopsAtZero(t *testing.T) {
	_, err := Reduce(State{}, widget.Action{Type: ActionDecrement}, widget.Env{})
	assert.ErrorIs(t, err, widget.ErrNoChange)

	s, err := Reduce(State{Count: 2}, widget.Action{Type: ActionDecrement}, widget.Env{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)
}

func TestGoalAndAverage(t *testing.T) {
	now := time.Date(2025, time.March, 8, 9, 0, 0, 0, time.Local)
	s, err := Reduce(State{Count: 3}, widget.Action{Type: ActionSetGoal, Value: "4"}, widget.Env{Now: now})
	require.NoError(t, err)
	s.History = map[string]int{"2025-03-07": 7, "2025-03-01": 7, "2025-03-08": 100}

	assert.InDelta(t, 2.0, WeekAverage(s, now), 0.001)
	v := View(s, widget.UIState{}, now)
	assert.Equal(t, "3/4 · 75%", v.Stats[0].Value)
	assert.Equal(t, 75, v.Stats[0].Bar)
	assert.Equal(t, "2.0", v.Stats[1].Value)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "2025-03-07", v.Rows[0].Label)
	assert.True(t, v.Rows[0].Done)

	_, err = Reduce(s, widget.Action{Type: ActionSetGoal, Value: "many"}, widget.Env{Now: now})
	var verr *widget.ValidationError
	assert.ErrorAs(t, err, &verr)
}
