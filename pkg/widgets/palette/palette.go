// Package palette collects colors by hex code.
package palette

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "palette"

const (
	ActionAdd        = "add"
	ActionComplement = "complement"
	ActionDelete     = "delete"
	ActionRename     = "rename"
)

// MaxSwatches bounds the palette.
const MaxSwatches = 64

// Swatch is a stored color in #rrggbb form.
type Swatch struct {
	ID   string `json:"id"`
	Hex  string `json:"hex"`
	Name string `json:"name,omitempty"`
}

// State is the persisted blob.
type State struct {
	Swatches []Swatch `json:"swatches"`
}

// Definition wires the palette into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Palette",
		Version:   1,
		Default:   func() State { return State{Swatches: []Swatch{}} },
		Normalize: normalize,
		Reduce:    Reduce,
		View:      View,
		Actions: []widget.ActionSpec{
			{Type: ActionAdd, Help: `add a color: "#1e90ff [name]"`, Input: widget.InputText},
			{Type: ActionComplement, Help: "add the complement of a swatch", Input: widget.InputID, Row: true},
			{Type: ActionRename, Help: "name a swatch", Input: widget.InputText, Row: true},
			{Type: ActionDelete, Help: "remove a swatch", Input: widget.InputID, Row: true},
		},
	}
}

// ParseHex accepts "#rgb", "rgb", "#rrggbb" or "rrggbb" and returns the
// canonical lower-case "#rrggbb".
func ParseHex(in string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(in), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	c, err := colorful.Hex("#" + strings.ToLower(h))
	if err != nil || len(h) != 6 {
		return "", widget.Invalid("%q is not a hex color", strings.TrimSpace(in))
	}
	return c.Hex(), nil
}

func normalize(s State) State {
	out := make([]Swatch, 0, len(s.Swatches))
	seen := make(map[string]bool, len(s.Swatches))
	for _, sw := range s.Swatches {
		hex, err := ParseHex(sw.Hex)
		if sw.ID == "" || err != nil || seen[sw.ID] {
			continue
		}
		seen[sw.ID] = true
		sw.Hex = hex
		out = append(out, sw)
	}
	s.Swatches = out
	return s
}

// Complement rotates the hue by 180 degrees, keeping saturation and
// lightness.
func Complement(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, sat, l := c.Hsl()
	return colorful.Hsl(math.Mod(h+180, 360), sat, l).Clamped().Hex()
}

func (s State) add(sw Swatch) (State, error) {
	if slices.ContainsFunc(s.Swatches, func(o Swatch) bool { return o.Hex == sw.Hex }) {
		return s, widget.Invalid("%s is already in the palette", sw.Hex)
	}
	if len(s.Swatches) >= MaxSwatches {
		return s, widget.Invalid("The palette is full")
	}
	s.Swatches = append(slices.Clone(s.Swatches), sw)
	return s, nil
}

// Reduce applies one action.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionAdd:
		code, name, _ := strings.Cut(strings.TrimSpace(a.Text), " ")
		if code == "" {
			return s, widget.Invalid("Enter a hex color")
		}
		hex, err := ParseHex(code)
		if err != nil {
			return s, err
		}
		return s.add(Swatch{ID: env.NewID(), Hex: hex, Name: strings.TrimSpace(name)})

	case ActionComplement:
		i := slices.IndexFunc(s.Swatches, func(sw Swatch) bool { return sw.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		return s.add(Swatch{ID: env.NewID(), Hex: Complement(s.Swatches[i].Hex)})

	case ActionRename:
		i := slices.IndexFunc(s.Swatches, func(sw Swatch) bool { return sw.ID == a.ID })
		name := strings.TrimSpace(a.Text)
		if i < 0 || s.Swatches[i].Name == name {
			return s, widget.ErrNoChange
		}
		list := slices.Clone(s.Swatches)
		list[i].Name = name
		s.Swatches = list
		return s, nil

	case ActionDelete:
		i := slices.IndexFunc(s.Swatches, func(sw Swatch) bool { return sw.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		s.Swatches = slices.Delete(slices.Clone(s.Swatches), i, i+1)
		return s, nil
	}
	return s, widget.Unknown(a)
}

// RGB formats the swatch as "rgb(r, g, b)".
func (sw Swatch) RGB() string {
	c, err := colorful.Hex(sw.Hex)
	if err != nil {
		return ""
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// View renders each swatch with its hex and RGB values.
func View(s State, ui widget.UIState, _ time.Time) widget.View {
	v := widget.View{
		Forms: []widget.Form{{Action: ActionAdd, Field: widget.InputText, Label: "Add", Placeholder: "#1e90ff sky"}},
		RowActions: []widget.Button{
			{Action: ActionComplement, Label: "Complement"},
			{Action: ActionDelete, Label: "Delete"},
		},
		Rows: []widget.Row{},
	}
	for _, sw := range s.Swatches {
		if !render.Matches(ui.Query, sw.Hex, sw.Name) {
			continue
		}
		label := sw.Hex
		if sw.Name != "" {
			label += " " + sw.Name
		}
		v.Rows = append(v.Rows, widget.Row{ID: sw.ID, Label: label, Detail: sw.RGB(), Icon: "■"})
	}
	if len(s.Swatches) == 0 {
		v.Empty = "No colors yet."
	} else {
		v.Empty = fmt.Sprintf("No colors match %q.", ui.Query)
	}
	return v
}
