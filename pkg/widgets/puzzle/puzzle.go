// Package puzzle is the 15-puzzle: slide tiles into order, fewest moves wins.
package puzzle

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "puzzle"

const (
	ActionNew   = "new"
	ActionMove  = "move"
	ActionSolve = "solve"
)

const (
	Size  = 4
	Cells = Size * Size
)

// Board holds tiles row by row; 0 is the blank.
type Board [Cells]int

// Solved returns the goal board.
func Solved() Board {
	var b Board
	for i := 0; i < Cells-1; i++ {
		b[i] = i + 1
	}
	return b
}

// State is the persisted blob. Best is the fewest moves of any win.
type State struct {
	Board  Board `json:"board"`
	Moves  int   `json:"moves"`
	Best   int   `json:"best,omitempty"`
	Won    int   `json:"won"`
	Active bool  `json:"active"`
}

// Definition wires the sliding puzzle into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "15 Puzzle",
		Version:   1,
		Default:   func() State { return State{Board: Solved()} },
		Normalize: normalize,
		Reduce:    Reduce,
		View:      View,
		Actions: []widget.ActionSpec{
			{Type: ActionNew, Help: "shuffle a new game"},
			{Type: ActionMove, Help: "slide a tile next to the blank", Input: widget.InputID, Row: true},
			{Type: ActionSolve, Help: "give up and show the solution"},
		},
	}
}

// Valid reports whether b is a permutation of 0..15.
func (b Board) Valid() bool {
	var seen [Cells]bool
	for _, t := range b {
		if t < 0 || t >= Cells || seen[t] {
			return false
		}
		seen[t] = true
	}
	return true
}

func (b Board) blank() int {
	for i, t := range b {
		if t == 0 {
			return i
		}
	}
	return -1
}

// Solvable applies the parity rule for even-width boards: the inversion
// count plus the blank's row counted from the bottom (1-based) must be odd.
func (b Board) Solvable() bool {
	inv := 0
	for i := 0; i < Cells; i++ {
		for j := i + 1; j < Cells; j++ {
			if b[i] != 0 && b[j] != 0 && b[i] > b[j] {
				inv++
			}
		}
	}
	fromBottom := Size - b.blank()/Size
	return (inv+fromBottom)%2 == 1
}

// IsSolved reports whether tiles are in order.
func (b Board) IsSolved() bool { return b == Solved() }

// Shuffle returns a random solvable board that is not already solved.
func Shuffle(r *rand.Rand) Board {
	for {
		b := Solved()
		r.Shuffle(Cells, func(i, j int) { b[i], b[j] = b[j], b[i] })
		if !b.Solvable() {
			// swapping two tiles flips parity.
			i, j := 0, 1
			if b[i] == 0 {
				i = 2
			} else if b[j] == 0 {
				j = 2
			}
			b[i], b[j] = b[j], b[i]
		}
		if !b.IsSolved() {
			return b
		}
	}
}

// Movable lists the tiles adjacent to the blank.
func (b Board) Movable() []int {
	z := b.blank()
	row, col := z/Size, z%Size
	var out []int
	if row > 0 {
		out = append(out, b[z-Size])
	}
	if row < Size-1 {
		out = append(out, b[z+Size])
	}
	if col > 0 {
		out = append(out, b[z-1])
	}
	if col < Size-1 {
		out = append(out, b[z+1])
	}
	return out
}

// Slide moves tile into the blank and reports whether it was adjacent.
func (b Board) Slide(tile int) (Board, bool) {
	for _, m := range b.Movable() {
		if m == tile {
			z := b.blank()
			for i, t := range b {
				if t == tile {
					b[i], b[z] = 0, tile
					return b, true
				}
			}
		}
	}
	return b, false
}

func normalize(s State) State {
	if !s.Board.Valid() || !s.Board.Solvable() {
		return State{Board: Solved(), Best: max(0, s.Best), Won: max(0, s.Won)}
	}
	return s
}

// Reduce applies one action. Shuffles draw from env.Rand.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionNew:
		s.Board = Shuffle(env.Rand)
		s.Moves = 0
		s.Active = true
		return s, nil

	case ActionMove:
		if !s.Active {
			return s, widget.Invalid("Start a new game first")
		}
		arg := strings.TrimSpace(a.ID)
		if arg == "" {
			arg = strings.TrimSpace(a.Value)
		}
		tile, err := strconv.Atoi(arg)
		if err != nil || tile < 1 || tile >= Cells {
			return s, widget.Invalid("Pick a tile from 1 to %d", Cells-1)
		}
		next, ok := s.Board.Slide(tile)
		if !ok {
			return s, widget.Invalid("Tile %d is not next to the gap", tile)
		}
		s.Board = next
		s.Moves++
		if next.IsSolved() {
			s.Active = false
			s.Won++
			if s.Best == 0 || s.Moves < s.Best {
				s.Best = s.Moves
			}
		}
		return s, nil

	case ActionSolve:
		if !s.Active {
			return s, widget.ErrNoChange
		}
		s.Board = Solved()
		s.Active = false
		return s, nil
	}
	return s, widget.Unknown(a)
}

// View renders the board as a grid.
func View(s State, _ widget.UIState, _ time.Time) widget.View {
	v := widget.View{
		RowActions: []widget.Button{{Action: ActionMove, Label: "Slide"}},
		Rows:       []widget.Row{},
	}
	for r := 0; r < Size; r++ {
		cells := make([]string, Size)
		for c := 0; c < Size; c++ {
			t := s.Board[r*Size+c]
			if t == 0 {
				cells[c] = "  ·"
			} else {
				cells[c] = fmt.Sprintf("%3d", t)
			}
		}
		v.Grid = append(v.Grid, strings.Join(cells, ""))
	}
	if s.Active {
		for _, t := range s.Board.Movable() {
			v.Rows = append(v.Rows, widget.Row{ID: strconv.Itoa(t), Label: fmt.Sprintf("Tile %d", t)})
		}
	}
	best := "-"
	if s.Best > 0 {
		best = strconv.Itoa(s.Best)
	}
	v.Stats = []widget.Stat{
		{Label: "Moves", Value: strconv.Itoa(s.Moves), Bar: widget.NoBar},
		{Label: "Best", Value: best, Bar: widget.NoBar},
		{Label: "Won", Value: strconv.Itoa(s.Won), Bar: widget.NoBar},
	}
	v.Empty = "Press new to shuffle."
	if s.Board.IsSolved() && s.Moves > 0 {
		v.Empty = fmt.Sprintf("Solved in %d moves.", s.Moves)
	}
	return v
}
