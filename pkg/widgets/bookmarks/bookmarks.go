// Package bookmarks keeps a small list of links, pinned ones first.
package bookmarks

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"tableflip.dev/widgets/pkg/glyph"
	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

// Name is the namespace key.
const Name = "bookmarks"

const (
	ActionAdd    = "add"
	ActionPin    = "pin"
	ActionVisit  = "visit"
	ActionDelete = "delete"
)

// Bookmark is a saved link.
type Bookmark struct {
	ID        string     `json:"id"`
	URL       string     `json:"url" validate:"required,url"`
	Title     string     `json:"title,omitempty" validate:"max=200"`
	Pinned    bool       `json:"pinned,omitempty"`
	Visits    int        `json:"visits,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	VisitedAt *time.Time `json:"visitedAt,omitempty"`
}

// State is the persisted blob. Bookmarks are kept newest first.
type State struct {
	Bookmarks []Bookmark `json:"bookmarks"`
}

var validate = validator.New()

// Definition wires bookmarks into a widget controller.
func Definition() widget.Definition[State] {
	return widget.Definition[State]{
		Name:      Name,
		Title:     "Bookmarks",
		Version:   1,
		Default:   func() State { return State{Bookmarks: []Bookmark{}} },
		Normalize: normalize,
		Reduce:    Reduce,
		View:      View,
		Actions: []widget.ActionSpec{
			{Type: ActionAdd, Help: `save a link: "<url> [title]"`, Input: widget.InputText},
			{Type: ActionPin, Help: "pin or unpin", Input: widget.InputID, Row: true},
			{Type: ActionVisit, Help: "record a visit", Input: widget.InputID, Row: true},
			{Type: ActionDelete, Help: "remove a link", Input: widget.InputID, Row: true},
		},
	}
}

func normalize(s State) State {
	seen := make(map[string]bool, len(s.Bookmarks))
	out := make([]Bookmark, 0, len(s.Bookmarks))
	for _, b := range s.Bookmarks {
		if b.ID == "" || b.URL == "" || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		out = append(out, b)
	}
	s.Bookmarks = out
	return s
}

// ParseInput splits "<url> [title]" and validates the link. A missing scheme
// defaults to https.
func ParseInput(text string) (Bookmark, error) {
	raw, title, _ := strings.Cut(strings.TrimSpace(text), " ")
	if raw == "" {
		return Bookmark{}, widget.Invalid("Enter a link")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	b := Bookmark{URL: raw, Title: strings.TrimSpace(title)}
	if err := validate.Struct(b); err != nil {
		return Bookmark{}, widget.Invalid("%q is not a valid link", strings.TrimSpace(text))
	}
	return b, nil
}

// Reduce applies one action. URLs are validated before they are stored.
func Reduce(s State, a widget.Action, env widget.Env) (State, error) {
	switch a.Type {
	case ActionAdd:
		b, err := ParseInput(a.Text)
		if err != nil {
			return s, err
		}
		if slices.ContainsFunc(s.Bookmarks, func(o Bookmark) bool { return o.URL == b.URL }) {
			return s, widget.Invalid("Already saved")
		}
		b.ID = env.NewID()
		b.CreatedAt = env.Now
		s.Bookmarks = append([]Bookmark{b}, s.Bookmarks...)
		return s, nil

	case ActionPin:
		return update(s, a.ID, func(b *Bookmark) { b.Pinned = !b.Pinned })

	case ActionVisit:
		return update(s, a.ID, func(b *Bookmark) {
			at := env.Now
			b.Visits++
			b.VisitedAt = &at
		})

	case ActionDelete:
		i := slices.IndexFunc(s.Bookmarks, func(b Bookmark) bool { return b.ID == a.ID })
		if i < 0 {
			return s, widget.ErrNoChange
		}
		s.Bookmarks = slices.Delete(slices.Clone(s.Bookmarks), i, i+1)
		return s, nil
	}
	return s, widget.Unknown(a)
}

func update(s State, id string, fn func(*Bookmark)) (State, error) {
	i := slices.IndexFunc(s.Bookmarks, func(b Bookmark) bool { return b.ID == id })
	if i < 0 {
		return s, widget.ErrNoChange
	}
	list := slices.Clone(s.Bookmarks)
	fn(&list[i])
	s.Bookmarks = list
	return s, nil
}

// Host returns the link's host without a leading "www.".
func (b Bookmark) Host() string {
	u, err := url.Parse(b.URL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Icon is the upper-cased first letter of the host, or the placeholder glyph.
func (b Bookmark) Icon() string {
	host := b.Host()
	r, _ := utf8.DecodeRuneInString(host)
	if r == utf8.RuneError {
		return glyph.Placeholder.String()
	}
	return string(unicode.ToUpper(r))
}

// Sorted lists pinned bookmarks first, each group newest first.
func Sorted(list []Bookmark) []Bookmark {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b Bookmark) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// View renders pinned bookmarks first, filtered by the query.
func View(s State, ui widget.UIState, _ time.Time) widget.View {
	v := widget.View{
		Forms: []widget.Form{{Action: ActionAdd, Field: widget.InputText, Label: "Save", Placeholder: "https://example.com Title"}},
		RowActions: []widget.Button{
			{Action: ActionVisit, Label: "Open"},
			{Action: ActionPin, Label: "Pin"},
			{Action: ActionDelete, Label: "Delete"},
		},
		Rows: []widget.Row{},
	}
	for _, b := range Sorted(s.Bookmarks) {
		if !render.Matches(ui.Query, b.Title, b.URL) {
			continue
		}
		label := b.Title
		if label == "" {
			label = b.Host()
		}
		v.Rows = append(v.Rows, widget.Row{ID: b.ID, Label: label, Detail: b.URL, Icon: b.Icon(), Pinned: b.Pinned})
	}
	switch {
	case len(s.Bookmarks) == 0:
		v.Empty = "No bookmarks yet."
	default:
		v.Empty = fmt.Sprintf("No bookmarks match %q.", ui.Query)
	}
	return v
}
