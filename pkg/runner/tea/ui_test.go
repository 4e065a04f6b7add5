package teaui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/widget"
)

func loadWidgets(t *testing.T, names ...string) []widget.Widget {
	t.Helper()
	st := store.NewMemory()
	out := make([]widget.Widget, 0, len(names))
	for _, n := range names {
		w, err := catalog.New(n, st)
		require.NoError(t, err)
		require.NoError(t, w.Load(context.Background()))
		out = append(out, w)
	}
	return out
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	}
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

func add(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = press(t, m, "a")
	require.Equal(t, modeInsert, m.mode)
	m.input.SetValue(text)
	m, _ = press(t, m, "enter")
	require.Equal(t, modeNormal, m.mode)
	return m
}

func TestTaskFlow(t *testing.T) {
	m := New(loadWidgets(t, "tasks"))
	assert.Contains(t, stripANSI(m.View()), "No tasks yet. Add one above.")

	m = add(t, m, "Buy milk")
	m = add(t, m, "Call mom")
	require.Len(t, m.view.Rows, 2)
	assert.Equal(t, "Call mom", m.view.Rows[0].Label)
	assert.Equal(t, "Saved add", m.status)

	// enter toggles the selected task; done tasks sink to the bottom.
	m, _ = press(t, m, "space")
	assert.Equal(t, "Buy milk", m.view.Rows[0].Label)
	assert.True(t, m.view.Rows[1].Done)

	m, _ = press(t, m, "j", "d")
	require.Len(t, m.view.Rows, 1)
	assert.Equal(t, 0, m.cursor)

	view := stripANSI(m.View())
	assert.Contains(t, view, "› ● Buy milk")
	assert.Contains(t, view, "1 clear-done")
}

func TestRejectedAddShowsFeedback(t *testing.T) {
	m := New(loadWidgets(t, "tasks"))
	m, _ = press(t, m, "a")
	m, cmd := press(t, m, "enter")
	assert.NotNil(t, cmd)
	assert.Contains(t, stripANSI(m.View()), "! Enter a task")
	assert.Empty(t, m.view.Rows)
}

func TestEscapeCancelsInsert(t *testing.T) {
	m := New(loadWidgets(t, "tasks"))
	m, _ = press(t, m, "a")
	m.input.SetValue("never")
	m, _ = press(t, m, "esc")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "Cancelled", m.status)
	assert.Empty(t, m.view.Rows)
}

func TestSearchFiltersAndClears(t *testing.T) {
	m := New(loadWidgets(t, "tasks"))
	m = add(t, m, "Buy milk")
	m = add(t, m, "Call mom")

	m, _ = press(t, m, "/")
	require.Equal(t, modeSearch, m.mode)
	m.setQuery("milk")
	require.Len(t, m.view.Rows, 1)
	assert.Equal(t, "milk", m.view.Query)

	m, _ = press(t, m, "esc")
	assert.Equal(t, modeNormal, m.mode)
	assert.Len(t, m.view.Rows, 2)
	assert.Empty(t, m.widgets[0].UI().Query)
}

func TestNumberKeysRunButtons(t *testing.T) {
	m := New(loadWidgets(t, "counter"))
	m, _ = press(t, m, "1", "1", "2")
	assert.Equal(t, []string{"1"}, m.view.Grid)
	assert.Contains(t, stripANSI(m.View()), "1 increment")
}

func TestTabSwitchesWidgetsAndTicks(t *testing.T) {
	m := New(loadWidgets(t, "tasks", "counter"))

	m, cmd := press(t, m, "tab")
	assert.Equal(t, 1, m.current)
	assert.Equal(t, 1, m.tickGen)
	assert.NotNil(t, cmd)

	// ticks scheduled for the previous widget are ignored
	next, cmd := m.Update(tickMsg{gen: 0})
	assert.Nil(t, cmd)
	m = next.(Model)

	next, cmd = m.Update(tickMsg{gen: 1})
	assert.NotNil(t, cmd)
	m = next.(Model)
	assert.Equal(t, "Counter", m.view.Title)
}

func TestStoreEventReloads(t *testing.T) {
	st := store.NewMemory()
	w, err := catalog.New("tasks", st)
	require.NoError(t, err)
	require.NoError(t, w.Load(context.Background()))

	other, err := catalog.New("tasks", st)
	require.NoError(t, err)
	require.NoError(t, other.Load(context.Background()))
	_, err = other.Dispatch(context.Background(), widget.Action{Type: "add", Text: "from elsewhere"})
	require.NoError(t, err)

	events := make(chan store.Event, 1)
	m := New([]widget.Widget{w}, WithEvents(events))
	assert.Empty(t, m.view.Rows)

	next, cmd := m.Update(storeMsg{ev: store.Event{Key: "tasks"}, ok: true})
	assert.NotNil(t, cmd)
	m = next.(Model)
	require.Len(t, m.view.Rows, 1)
	assert.Equal(t, "from elsewhere", m.view.Rows[0].Label)
}

func TestQuit(t *testing.T) {
	m := New(loadWidgets(t, "tasks"))
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
