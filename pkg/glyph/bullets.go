package glyph

import (
	"fmt"

	"tableflip.dev/widgets/pkg/widget"
)

// Glyph is a symbol shown in front of a row.
type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
}

const (
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	underlineCode = 4
	strikeCode    = 9
)

func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underlineCode, in, escape, resetCode)
}

// Bullet classifies a row for display.
type Bullet int

const (
	Open Bullet = iota
	Done
	Pinned
	Cursor
	Placeholder
)

var glyphs = []Glyph{
	{Key: "+", Symbol: "●", Meaning: "open"},
	{Key: "x", Symbol: "✘", Meaning: "done"},
	{Key: "*", Symbol: "✷", Meaning: "pinned"},
	{Key: ">", Symbol: "›", Meaning: "selected"},
	{Key: "?", Symbol: "◌", Meaning: "no icon"},
}

// DefaultGlyphs lists every glyph, mostly for help output.
func DefaultGlyphs() []Glyph {
	return append([]Glyph(nil), glyphs...)
}

func (g Glyph) String() string {
	return g.Symbol
}

func (b Bullet) Glyph() Glyph {
	return glyphs[b]
}

func (b Bullet) String() string {
	return b.Glyph().String()
}

// ForRow picks the bullet for r: pinned beats done beats open.
func ForRow(r widget.Row) Bullet {
	switch {
	case r.Pinned:
		return Pinned
	case r.Done:
		return Done
	default:
		return Open
	}
}
