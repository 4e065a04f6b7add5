package bookmarks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/glyph"
	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

var now = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.Local)

func envAt(at time.Time, id string) widget.Env {
	return widget.Env{Now: at, NewID: func() string { return id }}
}

func TestParseInput(t *testing.T) {
	b, err := ParseInput("go.dev The Go site")
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev", b.URL)
	assert.Equal(t, "The Go site", b.Title)

	_, err = ParseInput("http://")
	var verr *widget.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = ParseInput("   ")
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "Enter a link", verr.Message)
}

func TestAddPinDelete(t *testing.T) {
	s := Definition().Default()
	s, err := Reduce(s, widget.Action{Type: ActionAdd, Text: "https://www.example.com"}, envAt(now, "a"))
	require.NoError(t, err)
	s, err = Reduce(s, widget.Action{Type: ActionAdd, Text: "go.dev Go"}, envAt(now.Add(time.Minute), "b"))
	require.NoError(t, err)

	_, err = Reduce(s, widget.Action{Type: ActionAdd, Text: "go.dev again"}, envAt(now, "c"))
	var verr *widget.ValidationError
	require.ErrorAs(t, err, &verr)

	v := View(s, widget.UIState{}, now)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "b", v.Rows[0].ID)

	s, err = Reduce(s, widget.Action{Type: ActionPin, ID: "a"}, envAt(now, ""))
	require.NoError(t, err)
	v = View(s, widget.UIState{}, now)
	assert.Equal(t, "a", v.Rows[0].ID)
	assert.True(t, v.Rows[0].Pinned)
	assert.Equal(t, "example.com", v.Rows[0].Label)
	assert.Equal(t, "E", v.Rows[0].Icon)

	s, err = Reduce(s, widget.Action{Type: ActionVisit, ID: "b"}, envAt(now, ""))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Bookmarks[0].Visits)

	s, err = Reduce(s, widget.Action{Type: ActionDelete, ID: "a"}, envAt(now, ""))
	require.NoError(t, err)
	assert.Len(t, s.Bookmarks, 1)
	_, err = Reduce(s, widget.Action{Type: ActionDelete, ID: "a"}, envAt(now, ""))
	assert.ErrorIs(t, err, widget.ErrNoChange)
}

func TestSearchHighlightsTitleAndURL(t *testing.T) {
	s := State{Bookmarks: []Bookmark{
		{ID: "1", URL: "https://go.dev", Title: "Go"},
		{ID: "2", URL: "https://example.com/golang", Title: "Example"},
		{ID: "3", URL: "https://rust-lang.org", Title: "Rust"},
	}}
	v := View(s, widget.UIState{Query: "GO"}, now)
	require.Len(t, v.Rows, 2)
	v.Query = "GO"
	html, err := render.HTML(v, "")
	require.NoError(t, err)
	assert.Contains(t, html, "<mark>Go</mark>")
	assert.Contains(t, html, "example.com/<mark>go</mark>lang")
}

func TestIconPlaceholder(t *testing.T) {
	assert.Equal(t, glyph.Placeholder.String(), Bookmark{URL: "file:///tmp/notes.txt"}.Icon())
	assert.Equal(t, "G", Bookmark{URL: "https://github.com"}.Icon())
}
