package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/widget"
)

func TestMatches(t *testing.T) {
	assert.True(t, Matches("", "anything"))
	assert.True(t, Matches("MILK", "Buy milk"))
	assert.True(t, Matches("ex", "nope", "example.com"))
	assert.False(t, Matches("tea", "Buy milk", "coffee"))
	assert.True(t, Matches("straße", "STRASSE straße"))
}

func TestHighlightEscapesAndMarks(t *testing.T) {
	got := Highlight(`<b>Milk</b> & milk`, "milk")
	assert.Equal(t, `&lt;b&gt;<mark>Milk</mark>&lt;/b&gt; &amp; <mark>milk</mark>`, string(got))

	plain := Highlight(`<script>`, "")
	assert.Equal(t, `&lt;script&gt;`, string(plain))

	assert.Equal(t, "none", string(Highlight("none", "zzz")))
}

func TestSpans(t *testing.T) {
	assert.Equal(t, []string{"Buy ", "Milk", " now"}, Spans("Buy Milk now", "milk"))
	assert.Equal(t, []string{"plain"}, Spans("plain", ""))
	assert.Equal(t, []string{"", "ab", "", "ab", ""}, Spans("abab", "AB"))
}

func TestHTMLIsDeterministicAndEscaped(t *testing.T) {
	v := widget.View{
		Widget: "tasks",
		Title:  "Tasks",
		Query:  "milk",
		Rows: []widget.Row{
			{ID: "1", Label: `Buy <milk>`},
			{ID: "2", Label: "Done thing", Done: true},
		},
		Stats:      []widget.Stat{{Label: "Done", Value: "1/2", Bar: 50}, {Label: "Open", Value: "1", Bar: widget.NoBar}},
		Forms:      []widget.Form{{Action: "add", Field: widget.InputText, Label: "Add", Placeholder: "New task"}},
		RowActions: []widget.Button{{Action: "toggle", Label: "Toggle"}},
	}
	a, err := HTML(v, "/w/tasks/actions")
	require.NoError(t, err)
	b, err := HTML(v, "/w/tasks/actions")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.Contains(t, a, `Buy &lt;<mark>milk</mark>&gt;`)
	assert.NotContains(t, a, "<milk>")
	assert.Contains(t, a, `class="item done"`)
	assert.Contains(t, a, `<progress max="100" value="50"></progress>`)
	assert.Equal(t, 1, strings.Count(a, "<progress"))
	assert.Contains(t, a, `name="id" value="2"`)
	assert.Contains(t, a, `action="/w/tasks/actions"`)
	assert.NotContains(t, a, `class="empty"`)
}

func TestHTMLButtons(t *testing.T) {
	out, err := HTML(widget.View{Widget: "counter", Title: "Counter", Buttons: []widget.Button{{Action: "increment", Label: "increment"}}}, "/w/counter/actions")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="buttons">`)
	assert.Contains(t, out, `<input type="hidden" name="type" value="increment"><button type="submit">increment</button>`)

	out, err = HTML(widget.View{Widget: "counter", Title: "Counter"}, "")
	require.NoError(t, err)
	assert.NotContains(t, out, `class="buttons"`)
}

func TestHTMLEmptyState(t *testing.T) {
	out, err := HTML(widget.View{Widget: "tasks", Title: "Tasks", Empty: "Nothing to do"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, `<p class="empty">Nothing to do</p>`)
	assert.NotContains(t, out, "<ul")
}

func TestHTMLFeedback(t *testing.T) {
	out, err := HTML(widget.View{Widget: "budget", Title: "Budget", Feedback: `"abc" is not a number`}, "")
	require.NoError(t, err)
	assert.Contains(t, out, `<p class="feedback" role="alert">&#34;abc&#34; is not a number</p>`)
}
