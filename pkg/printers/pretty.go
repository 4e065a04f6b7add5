package printers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"

	"tableflip.dev/widgets/pkg/glyph"
	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("m1x2y3z4-1a2b3c4d  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

// styled reports whether raw escape sequences (strike-through) may be written.
func (pp *PrettyPrint) styled() bool {
	if color.NoColor {
		return false
	}
	if f, ok := pp.out().(interface{ Fd() uintptr }); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return pp.Out == nil && isatty.IsTerminal(os.Stdout.Fd())
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " item")
	default:
		_, _ = c.Fprintln(pp.out(), " items")
	}
}

// View prints a whole widget: title, feedback, stats, grid and rows.
func (pp *PrettyPrint) View(v widget.View) {
	if len(v.Rows) > 0 {
		pp.TitleWithCount(v.Title, len(v.Rows))
	} else {
		pp.Title(v.Title)
	}
	if v.Feedback != "" {
		_, _ = color.New(color.FgRed).Fprintf(pp.out(), "! %s\n", v.Feedback)
	}
	pp.Stats(v.Stats)
	pp.Grid(v.Grid)
	pp.Rows(v.Rows, v.Query, v.Empty)
}

// Stats prints aggregate lines as a table with text progress bars.
func (pp *PrettyPrint) Stats(stats []widget.Stat) {
	if len(stats) == 0 {
		return
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, s := range stats {
		if s.Bar == widget.NoBar {
			tbl.AddRow(s.Label, bold.Sprint(s.Value))
			continue
		}
		tbl.AddRow(s.Label, bold.Sprint(s.Value), Bar(s.Bar, 20))
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Grid prints pre-laid-out lines verbatim.
func (pp *PrettyPrint) Grid(lines []string) {
	for _, l := range lines {
		_, _ = fmt.Fprintln(pp.out(), l)
	}
}

// Rows prints one line per row, highlighting query matches.
func (pp *PrettyPrint) Rows(rows []widget.Row, query, empty string) {
	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		if empty == "" {
			empty = "none"
		}
		_, _ = f.Fprintf(pp.out(), " %s\n\n", empty)
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	d := color.New(color.Faint)

	for _, r := range rows {
		if pp.ShowID {
			_, _ = y.Fprint(pp.out(), r.ID)
			_, _ = y.Fprint(pp.out(), strings.Repeat(" ", max(1, len(spacing)-len(r.ID))))
		}
		icon := r.Icon
		if icon == "" {
			icon = glyph.ForRow(r).String()
		}
		label := pp.highlight(r.Label, query)
		if r.Done && pp.styled() {
			label = glyph.Strike(label)
		}
		_, _ = t.Fprintf(pp.out(), "%s %s", icon, label)
		if r.Detail != "" {
			_, _ = d.Fprintf(pp.out(), "  %s", pp.highlight(r.Detail, query))
		}
		_, _ = fmt.Fprintln(pp.out(), "")
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) highlight(text, query string) string {
	spans := render.Spans(text, query)
	if len(spans) == 1 {
		return text
	}
	hl := color.New(color.Bold, color.FgHiYellow)
	var b strings.Builder
	for i, s := range spans {
		if i%2 == 1 {
			b.WriteString(hl.Sprint(s))
		} else {
			b.WriteString(s)
		}
	}
	return b.String()
}

// Bar draws pct (clamped to [0, 100]) as a width-cell text bar.
func Bar(pct, width int) string {
	pct = min(max(pct, 0), 100)
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
