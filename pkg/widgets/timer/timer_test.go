package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/widget"
)

func TestStartPauseResumeComplete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.August, 4, 9, 0, 0, 0, time.Local)
	ob := widget.NewOutbox(8)
	c := widget.New(Definition(), store.NewMemory(), widget.WithClock(func() time.Time { return now }), widget.WithOutbox(ob))
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, []string{"25:00"}, c.View().Grid)

	_, err := c.Dispatch(ctx, widget.Action{Type: ActionStart, Value: "10m"})
	require.NoError(t, err)
	notices := ob.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, widget.NoticeAlarmStart, notices[0].Kind)
	assert.Equal(t, now.Add(10*time.Minute), notices[0].At)

	now = now.Add(4 * time.Minute)
	changed, err := c.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"06:00"}, c.View().Grid)
	assert.Equal(t, 40, c.View().Stats[0].Bar)

	_, err = c.Dispatch(ctx, widget.Action{Type: ActionPause})
	require.NoError(t, err)
	assert.Equal(t, widget.NoticeAlarmCancel, ob.Drain()[0].Kind)
	now = now.Add(time.Hour)
	assert.Equal(t, []string{"06:00"}, c.View().Grid, "paused timers do not move")

	_, err = c.Dispatch(ctx, widget.Action{Type: ActionResume})
	require.NoError(t, err)
	assert.Equal(t, now.Add(6*time.Minute), ob.Drain()[0].At)

	now = now.Add(6 * time.Minute)
	changed, err = c.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	s := c.State()
	assert.False(t, s.Running())
	assert.Equal(t, 1, s.Sessions)
	assert.Empty(t, ob.Drain(), "completion leaves the alarm to the agent")
}

func TestExpiredRunCompletesAtLoad(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	start := time.Date(2025, time.August, 4, 9, 0, 0, 0, time.Local)
	c := widget.New(Definition(), st, widget.WithClock(func() time.Time { return start }))
	require.NoError(t, c.Load(ctx))
	_, err := c.Dispatch(ctx, widget.Action{Type: ActionStart, Value: "5"})
	require.NoError(t, err)

	later := widget.New(Definition(), st, widget.WithClock(func() time.Time { return start.Add(time.Hour) }))
	require.NoError(t, later.Load(ctx))
	assert.False(t, later.State().Running())
	assert.Equal(t, 1, later.State().Sessions)
}

func TestStartValidation(t *testing.T) {
	s := Definition().Default()
	_, err := Reduce(s, widget.Action{Type: ActionStart, Value: "soon"}, widget.Env{Now: time.Now()})
	var verr *widget.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, `"soon" is not a duration`, verr.Message)

	_, err = Reduce(s, widget.Action{Type: ActionStart, Value: "2d"}, widget.Env{Now: time.Now()})
	assert.ErrorAs(t, err, &verr)

	next, err := Reduce(s, widget.Action{Type: ActionStart}, widget.Env{Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, DefaultLength, next.Length)
}

func TestNoops(t *testing.T) {
	s := Definition().Default()
	for _, typ := range []string{ActionPause, ActionResume, ActionReset} {
		_, err := Reduce(s, widget.Action{Type: typ}, widget.Env{Now: time.Now()})
		assert.ErrorIs(t, err, widget.ErrNoChange, typ)
	}
}

func TestSessionsResetOnNewDay(t *testing.T) {
	s := State{Day: "2025-08-03", Sessions: 4, Length: time.Minute}
	next, changed := Housekeep(s, time.Date(2025, time.August, 4, 0, 1, 0, 0, time.Local))
	assert.True(t, changed)
	assert.Equal(t, 0, next.Sessions)
	assert.Equal(t, "2025-08-04", next.Day)
}
