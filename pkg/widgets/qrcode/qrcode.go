// Package qrcode draws a QR-style pattern for a piece of text. The pattern
// has the finder and timing marks of a version 1 code but the data cells are
// derived from a hash, so it is decorative and not scannable.
package qrcode

import (
	"crypto/sha256"
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "qrcode"

const (
	ActionEncode = "encode"
	ActionDelete = "delete"
	ActionClear  = "clear"
)

const (
	// Modules is the side length of a version 1 symbol.
	Modules = 21
	// HistorySize bounds remembered texts.
	HistorySize = 10
	MaxText     = 512
)

// Entry is a previously encoded text.
type Entry struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// State is the persisted blob.
type State struct {
	Current string  `json:"current"`
	History []Entry `json:"history"`
}

// Definition wires the code generator into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "QR code",
		Version:   1,
		Default:   func() State { return State{History: []Entry{}} },
		Normalize: normalize,
		Reduce:    Reduce,
		View:      View,
		Actions: []widget.ActionSpec{
			{Type: ActionEncode, Help: "draw a code for text", Input: widget.InputText},
			{Type: ActionDelete, Help: "forget a history entry", Input: widget.InputID, Row: true},
			{Type: ActionClear, Help: "forget all history"},
		},
	}
}

func normalize(s State) State {
	if s.History == nil {
		s.History = []Entry{}
	}
	if len(s.History) > HistorySize {
		s.History = s.History[:HistorySize]
	}
	return s
}

// Reduce applies one action.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionEncode:
		text, err := widget.RequireText(a.Text, "Enter text to encode")
		if err != nil {
			return s, err
		}
		if len(text) > MaxText {
			return s, widget.Invalid("Keep it under %d bytes", MaxText)
		}
		rest := slices.DeleteFunc(slices.Clone(s.History), func(e Entry) bool { return e.Text == text })
		history := append([]Entry{{ID: env.NewID(), Text: text, At: env.Now}}, rest...)
		if len(history) > HistorySize {
			history = history[:HistorySize]
		}
		s.Current = text
		s.History = history
		return s, nil

	case ActionDelete:
		i := slices.IndexFunc(s.History, func(e Entry) bool { return e.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		s.History = slices.Delete(slices.Clone(s.History), i, i+1)
		return s, nil

	case ActionClear:
		if len(s.History) == 0 && s.Current == "" {
			return s, widget.ErrNoChange
		}
		return State{History: []Entry{}}, nil
	}
	return s, widget.Unknown(a)
}

// Matrix is a square of dark (true) and light modules.
type Matrix [Modules][Modules]bool

// Encode builds the pattern for text. Equal texts give equal matrices.
func Encode(text string) Matrix {
	var m Matrix
	reserved := func(r, c int) bool {
		inFinder := func(r0, c0 int) bool { return r >= r0 && r < r0+8 && c >= c0 && c < c0+8 }
		return inFinder(0, 0) || inFinder(0, Modules-8) || inFinder(Modules-8, 0) || r == 6 || c == 6
	}

	for _, o := range [][2]int{{0, 0}, {0, Modules - 7}, {Modules - 7, 0}} {
		for r := 0; r < 7; r++ {
			for c := 0; c < 7; c++ {
				ring := r == 0 || r == 6 || c == 0 || c == 6
				core := r >= 2 && r <= 4 && c >= 2 && c <= 4
				m[o[0]+r][o[1]+c] = ring || core
			}
		}
	}
	for i := 8; i < Modules-8; i++ {
		m[6][i] = i%2 == 0
		m[i][6] = i%2 == 0
	}

	bits := bitStream(text)
	for r := 0; r < Modules; r++ {
		for c := 0; c < Modules; c++ {
			if reserved(r, c) {
				continue
			}
			m[r][c] = bits()
		}
	}
	return m
}

// bitStream yields bits from sha256(text || counter), rehashing as needed.
func bitStream(text string) func() bool {
	var block [sha256.Size]byte
	var counter uint32
	pos := len(block) * 8
	return func() bool {
		if pos == len(block)*8 {
			var ctr [4]byte
			binary.BigEndian.PutUint32(ctr[:], counter)
			counter++
			block = sha256.Sum256(append([]byte(text), ctr[:]...))
			pos = 0
		}
		bit := block[pos/8]>>(7-pos%8)&1 == 1
		pos++
		return bit
	}
}

// Lines renders m with two characters per module so it looks square in a
// terminal, with a one-module quiet zone.
func (m Matrix) Lines() []string {
	blank := strings.Repeat("  ", Modules+2)
	out := []string{blank}
	for _, row := range m {
		var b strings.Builder
		b.WriteString("  ")
		for _, dark := range row {
			if dark {
				b.WriteString("██")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString("  ")
		out = append(out, b.String())
	}
	return append(out, blank)
}

// View renders the pattern for the current text and the history.
func View(s State, ui widget.UIState, now time.Time) widget.View {
	v := widget.View{
		Forms:      []widget.Form{{Action: ActionEncode, Field: widget.InputText, Label: "Encode", Placeholder: "https://example.com"}},
		RowActions: []widget.Button{{Action: ActionDelete, Label: "Forget"}},
		Rows:       []widget.Row{},
		Empty:      "Nothing encoded yet.",
	}
	if s.Current != "" {
		v.Grid = Encode(s.Current).Lines()
		v.Stats = []widget.Stat{{Label: "Showing", Value: s.Current, Bar: widget.NoBar}}
	}
	for _, e := range s.History {
		if !render.Matches(ui.Query, e.Text) {
			continue
		}
		v.Rows = append(v.Rows, widget.Row{ID: e.ID, Label: e.Text, Detail: e.At.Local().Format("Jan 2 15:04"), Done: e.Text == s.Current})
	}
	return v
}
