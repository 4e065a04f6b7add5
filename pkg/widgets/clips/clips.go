// Package clips is a clipboard history. Unpinned clips expire after a
// configurable number of days.
package clips

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/timeutil"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "clips"

const (
	ActionAdd    = "add"
	ActionPin    = "pin"
	ActionDelete = "delete"
	ActionClear  = "clear"
	ActionKeep   = "keep"
)

const (
	// MaxClips bounds the history; the oldest unpinned clip goes first.
	MaxClips = 50
	// MaxPinned leaves room for at least one unpinned clip.
	MaxPinned = MaxClips - 1
	// DefaultKeepDays is the expiry for unpinned clips.
	DefaultKeepDays = 7
	previewLen      = 60
)

// Clip is one saved piece of text.
type Clip struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Pinned bool      `json:"pinned,omitempty"`
	At     time.Time `json:"at"`
}

// State is the persisted blob. Clips are kept newest first.
type State struct {
	Clips    []Clip `json:"clips"`
	KeepDays int    `json:"keepDays"`
}

// Definition wires the clip history into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Clips",
		Version:   1,
		Default:   func() State { return State{Clips: []Clip{}, KeepDays: DefaultKeepDays} },
		Normalize: normalize,
		Housekeep: Expire,
		Reduce:    Reduce,
		View:      View,
		Actions: []widget.ActionSpec{
			{Type: ActionAdd, Help: "save text", Input: widget.InputText},
			{Type: ActionPin, Help: "pin or unpin; pinned clips never expire", Input: widget.InputID, Row: true},
			{Type: ActionDelete, Help: "remove a clip", Input: widget.InputID, Row: true},
			{Type: ActionClear, Help: "remove every unpinned clip"},
			{Type: ActionKeep, Help: "days to keep unpinned clips (1-365)", Input: widget.InputValue},
		},
	}
}

func normalize(s State) State {
	if s.KeepDays <= 0 {
		s.KeepDays = DefaultKeepDays
	}
	s.Clips = trim(lo.UniqBy(lo.Filter(s.Clips, func(c Clip, _ int) bool {
		return c.ID != "" && c.Text != ""
	}), func(c Clip) string { return c.ID }))
	return s
}

// Expire drops unpinned clips older than KeepDays.
func Expire(s State, now time.Time) (State, bool) {
	kept := lo.Filter(s.Clips, func(c Clip, _ int) bool {
		return c.Pinned || timeutil.Within(timeutil.DayKey(c.At), now, s.KeepDays)
	})
	if len(kept) == len(s.Clips) {
		return s, false
	}
	s.Clips = kept
	return s, true
}

// Reduce applies one action.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionAdd:
		if strings.TrimSpace(a.Text) == "" {
			return s, widget.Invalid("Nothing to save")
		}
		text := a.Text
		// re-adding a clip moves it to the top.
		rest := lo.Reject(s.Clips, func(c Clip, _ int) bool { return c.Text == text })
		pinned := len(rest) < len(s.Clips) && lo.ContainsBy(s.Clips, func(c Clip) bool { return c.Text == text && c.Pinned })
		clips := append([]Clip{{ID: env.NewID(), Text: text, Pinned: pinned, At: env.Now}}, rest...)
		s.Clips = trim(clips)
		return s, nil

	case ActionPin:
		i := slices.IndexFunc(s.Clips, func(c Clip) bool { return c.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		if !s.Clips[i].Pinned && lo.CountBy(s.Clips, func(c Clip) bool { return c.Pinned }) >= MaxPinned {
			return s, widget.Invalid("Unpin a clip first, at most %d can be pinned", MaxPinned)
		}
		clips := slices.Clone(s.Clips)
		clips[i].Pinned = !clips[i].Pinned
		s.Clips = clips
		return s, nil

	case ActionDelete:
		i := slices.IndexFunc(s.Clips, func(c Clip) bool { return c.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		s.Clips = slices.Delete(slices.Clone(s.Clips), i, i+1)
		return s, nil

	case ActionClear:
		pinned := lo.Filter(s.Clips, func(c Clip, _ int) bool { return c.Pinned })
		if len(pinned) == len(s.Clips) {
			return s, widget.ErrNoChange
		}
		s.Clips = pinned
		return s, nil

	case ActionKeep:
		n, err := widget.ParseCount(a.Value, 1, 365)
		if err != nil {
			return s, err
		}
		if n == s.KeepDays {
			return s, widget.ErrNoChange
		}
		s.KeepDays = n
		return s, nil
	}
	return s, widget.Unknown(a)
}

// trim drops the oldest unpinned clips beyond MaxClips, then the oldest of
// any that remain. Clips are newest first.
func trim(clips []Clip) []Clip {
	over := len(clips) - MaxClips
	if over <= 0 {
		return clips
	}
	out := make([]Clip, 0, MaxClips)
	for i := len(clips) - 1; i >= 0; i-- {
		if over > 0 && !clips[i].Pinned {
			over--
			continue
		}
		out = append(out, clips[i])
	}
	slices.Reverse(out)
	if len(out) > MaxClips {
		out = out[:MaxClips]
	}
	return out
}

// Latest returns the newest clip.
func Latest(s State) (Clip, bool) {
	if len(s.Clips) == 0 {
		return Clip{}, false
	}
	return s.Clips[0], true
}

func preview(text string) string {
	line := strings.Join(strings.Fields(text), " ")
	runes := []rune(line)
	if len(runes) > previewLen {
		return string(runes[:previewLen-1]) + "…"
	}
	return line
}

// View renders the history, filtered by the query.
func View(s State, ui widget.UIState, now time.Time) widget.View {
	v := widget.View{
		Forms:      []widget.Form{{Action: ActionAdd, Field: widget.InputText, Label: "Save", Placeholder: "Paste text"}},
		RowActions: []widget.Button{{Action: ActionPin, Label: "Pin"}, {Action: ActionDelete, Label: "Delete"}},
		Rows:       []widget.Row{},
	}
	ordered := slices.Clone(s.Clips)
	slices.SortStableFunc(ordered, func(a, b Clip) int {
		switch {
		case a.Pinned == b.Pinned:
			return 0
		case a.Pinned:
			return -1
		default:
			return 1
		}
	})
	for _, c := range ordered {
		if !render.Matches(ui.Query, c.Text) {
			continue
		}
		v.Rows = append(v.Rows, widget.Row{ID: c.ID, Label: preview(c.Text), Detail: age(c.At, now), Pinned: c.Pinned})
	}
	v.Stats = []widget.Stat{{
		Label: "Kept",
		Value: fmt.Sprintf("%d of %d · %d days", len(s.Clips), MaxClips, s.KeepDays),
		Bar:   widget.NoBar,
	}}
	if len(s.Clips) == 0 {
		v.Empty = "Clipboard history is empty."
	} else {
		v.Empty = fmt.Sprintf("No clips match %q.", ui.Query)
	}
	return v
}

func age(at, now time.Time) string {
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return at.Local().Format("Jan 2")
	}
}
