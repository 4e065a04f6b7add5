// Package textstyle converts text into Unicode "fonts" and keeps favorites.
package textstyle

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "textstyle"

const (
	ActionSetText = "set-text"
	ActionStyle   = "style"
	ActionSave    = "save"
	ActionDelete  = "delete"
)

const (
	MaxFavorites = 20
	MaxText      = 280
)

// Favorite is a saved styled output.
type Favorite struct {
	ID     string    `json:"id"`
	Style  string    `json:"style"`
	Output string    `json:"output"`
	At     time.Time `json:"at"`
}

// State is the persisted blob.
type State struct {
	Text      string     `json:"text"`
	Style     string     `json:"style"`
	Favorites []Favorite `json:"favorites"`
}

// Output is the current text in the current style.
func (s State) Output() string {
	st, ok := Lookup(s.Style)
	if !ok {
		return s.Text
	}
	return st.Apply(s.Text)
}

// Definition wires the text styler into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Text styles",
		Version:   1,
		Default:   func() State { return State{Style: Styles[0].Key, Favorites: []Favorite{}} },
		Normalize: normalize,
		Reduce:    Reduce,
		View:      View,
		Actions: []widget.ActionSpec{
			{Type: ActionSetText, Help: "set the text to convert", Input: widget.InputText},
			{Type: ActionStyle, Help: "choose a style: " + keys(), Input: widget.InputValue},
			{Type: ActionSave, Help: "save the current output as a favorite"},
			{Type: ActionDelete, Help: "remove a favorite", Input: widget.InputID, Row: true},
		},
	}
}

func keys() string {
	out := make([]string, len(Styles))
	for i, s := range Styles {
		out[i] = s.Key
	}
	return strings.Join(out, ", ")
}

func normalize(s State) State {
	if _, ok := Lookup(s.Style); !ok {
		s.Style = Styles[0].Key
	}
	if s.Favorites == nil {
		s.Favorites = []Favorite{}
	}
	return s
}

// Reduce applies one action.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionSetText:
		if len([]rune(a.Text)) > MaxText {
			return s, widget.Invalid("Keep it under %d characters", MaxText)
		}
		if a.Text == s.Text {
			return s, widget.ErrNoChange
		}
		s.Text = a.Text
		return s, nil

	case ActionStyle:
		key := strings.ToLower(strings.TrimSpace(a.Value))
		if _, ok := Lookup(key); !ok {
			return s, widget.Invalid("Unknown style %q", key)
		}
		if key == s.Style {
			return s, widget.ErrNoChange
		}
		s.Style = key
		return s, nil

	case ActionSave:
		if strings.TrimSpace(s.Text) == "" {
			return s, widget.Invalid("Type something first")
		}
		out := s.Output()
		if slices.ContainsFunc(s.Favorites, func(f Favorite) bool { return f.Output == out }) {
			return s, widget.ErrNoChange
		}
		favs := append([]Favorite{{ID: env.NewID(), Style: s.Style, Output: out, At: env.Now}}, s.Favorites...)
		if len(favs) > MaxFavorites {
			favs = favs[:MaxFavorites]
		}
		s.Favorites = favs
		return s, nil

	case ActionDelete:
		i := slices.IndexFunc(s.Favorites, func(f Favorite) bool { return f.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		s.Favorites = slices.Delete(slices.Clone(s.Favorites), i, i+1)
		return s, nil
	}
	return s, widget.Unknown(a)
}

// View renders the styled text and the favorites.
func View(s State, ui widget.UIState, _ time.Time) widget.View {
	v := widget.View{
		Forms: []widget.Form{
			{Action: ActionSetText, Field: widget.InputText, Label: "Text", Placeholder: "Hello"},
			{Action: ActionStyle, Field: widget.InputValue, Label: "Style", Placeholder: s.Style},
		},
		RowActions: []widget.Button{{Action: ActionDelete, Label: "Delete"}},
		Rows:       []widget.Row{},
	}
	if s.Text != "" {
		for _, st := range Styles {
			v.Grid = append(v.Grid, fmt.Sprintf("%-10s %s", st.Key, st.Apply(s.Text)))
		}
	}
	for _, f := range s.Favorites {
		if !render.Matches(ui.Query, f.Output) {
			continue
		}
		v.Rows = append(v.Rows, widget.Row{ID: f.ID, Label: f.Output, Detail: f.Style})
	}
	v.Stats = []widget.Stat{{Label: "Output", Value: s.Output(), Bar: widget.NoBar}}
	v.Empty = "No favorites saved."
	return v
}
