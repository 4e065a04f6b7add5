package puzzle

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/widget"
)

var zero time.Time

func TestShuffleIsSolvable(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		b := Shuffle(r)
		require.True(t, b.Valid())
		require.True(t, b.Solvable(), "%v", b)
		require.False(t, b.IsSolved())
	}
}

func TestSolvableParity(t *testing.T) {
	assert.True(t, Solved().Solvable())
	swapped := Solved()
	swapped[13], swapped[14] = swapped[14], swapped[13]
	assert.False(t, swapped.Solvable(), "the 14-15 swap is the classic unsolvable board")
}

func TestMoveAndWin(t *testing.T) {
	s := State{Board: Solved(), Active: true}
	// slide 15 right into the gap, then back.
	s, err := Reduce(s, widget.Action{Type: ActionMove, ID: "15"}, widget.Env{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Board[14])
	assert.True(t, s.Active)

	_, err = Reduce(s, widget.Action{Type: ActionMove, ID: "1"}, widget.Env{})
	var verr *widget.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Tile 1 is not next to the gap", verr.Message)

	s, err = Reduce(s, widget.Action{Type: ActionMove, Value: "15"}, widget.Env{})
	require.NoError(t, err)
	assert.False(t, s.Active)
	assert.Equal(t, 1, s.Won)
	assert.Equal(t, 2, s.Best)
	assert.Equal(t, "Solved in 2 moves.", View(s, widget.UIState{}, zero).Empty)
}

func TestNewGameUsesEnvRand(t *testing.T) {
	a, err := Reduce(Definition().Default(), widget.Action{Type: ActionNew}, widget.Env{Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	b, err := Reduce(Definition().Default(), widget.Action{Type: ActionNew}, widget.Env{Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	assert.Equal(t, a.Board, b.Board)

	v := View(a, widget.UIState{}, zero)
	assert.Len(t, v.Grid, Size)
	for _, row := range v.Rows {
		tile, _ := strconv.Atoi(row.ID)
		_, ok := a.Board.Slide(tile)
		assert.True(t, ok, row.ID)
	}
}

func TestUnsolvableBoardResetOnLoad(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	bad := Solved()
	bad[13], bad[14] = bad[14], bad[13]
	data, _ := json.Marshal(State{Board: bad, Moves: 9, Active: true, Best: 40})
	blob, _ := json.Marshal(map[string]any{"version": 1, "data": json.RawMessage(data)})
	require.NoError(t, st.Set(ctx, Name, blob))

	c := widget.New(Definition(), st)
	require.NoError(t, c.Load(ctx))
	s := c.State()
	assert.Equal(t, Solved(), s.Board)
	assert.False(t, s.Active)
	assert.Equal(t, 40, s.Best)
}
