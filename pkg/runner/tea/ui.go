package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/glyph"
	"tableflip.dev/widgets/pkg/printers"
	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/runner/tea/internal/theme"
	"tableflip.dev/widgets/pkg/store"
	"tableflip.dev/widgets/pkg/widget"
)

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeSearch
	modeHelp
)

// messages
type tickMsg struct{ gen int }
type feedbackMsg struct{}
type storeMsg struct {
	ev store.Event
	ok bool
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context passed to every controller call.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithEvents reloads a widget when another process writes its namespace.
func WithEvents(events <-chan store.Event) Option {
	return func(m *Model) { m.events = events }
}

// Model is the popup: one widget at a time, tab switches between them.
type Model struct {
	ctx     context.Context
	widgets []widget.Widget
	current int
	events  <-chan store.Event

	mode  mode
	form  int
	input textinput.Model

	view    widget.View
	cursor  int
	status  string
	tickGen int

	theme      theme.Theme
	termWidth  int
	termHeight int
}

// New creates a popup over loaded widgets.
func New(widgets []widget.Widget, opts ...Option) Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = ""

	m := Model{
		ctx:     context.Background(),
		widgets: widgets,
		mode:    modeNormal,
		input:   ti,
		theme:   theme.Default(),
		status:  "j/k move, enter act, a add, / search, ? help, q quit",
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Init starts the tick loop and the store listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.scheduleTick(), m.waitEvent())
}

func (m *Model) widget() widget.Widget {
	if len(m.widgets) == 0 {
		return nil
	}
	return m.widgets[m.current]
}

func (m *Model) refresh() {
	w := m.widget()
	if w == nil {
		m.view = widget.View{Title: "No widgets", Empty: "Nothing to show."}
		return
	}
	m.view = w.View()
	if m.cursor >= len(m.view.Rows) {
		m.cursor = len(m.view.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) scheduleTick() tea.Cmd {
	w := m.widget()
	if w == nil || w.TickInterval() <= 0 {
		return nil
	}
	gen := m.tickGen
	return tea.Tick(w.TickInterval(), func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m *Model) waitEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		return storeMsg{ev: ev, ok: ok}
	}
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case tickMsg:
		if msg.gen != m.tickGen {
			break
		}
		if w := m.widget(); w != nil {
			if _, err := w.Tick(m.ctx); err != nil {
				m.status = "ERR: " + err.Error()
			}
		}
		m.refresh()
		cmds = append(cmds, m.scheduleTick())
	case feedbackMsg:
		m.refresh()
	case storeMsg:
		if !msg.ok {
			m.events = nil
			break
		}
		for _, w := range m.widgets {
			if msg.ev.Key == "" || msg.ev.Key == w.Name() {
				if err := w.Load(m.ctx); err != nil {
					m.status = "ERR: " + err.Error()
				}
			}
		}
		m.refresh()
		cmds = append(cmds, m.waitEvent())
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
			}
		case modeInsert:
			cmds = append(cmds, m.handleInsertKey(msg))
		case modeSearch:
			cmds = append(cmds, m.handleSearchKey(msg))
		case modeNormal:
			cmds = append(cmds, m.handleNormalKey(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "?":
		m.mode = modeHelp
	case "j", "down":
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, len(m.view.Rows)-1)
	case "enter", "space":
		if len(m.view.RowActions) > 0 {
			return m.rowAction(m.view.RowActions[0].Action)
		}
	case "d":
		return m.rowAction("delete")
	case "p":
		return m.rowAction("pin")
	case "a", "o":
		if len(m.view.Forms) == 0 {
			m.status = "Nothing to add here"
			return nil
		}
		return m.enterInsert(0)
	case "/":
		m.mode = modeSearch
		m.input.Placeholder = "search"
		m.input.SetValue(m.view.Query)
		m.input.CursorEnd()
		return tea.Batch(m.input.Focus(), textinput.Blink)
	case "esc":
		if m.view.Query != "" {
			m.setQuery("")
		}
	case "tab", "l", "right":
		return m.switchTo(m.current + 1)
	case "shift+tab", "h", "left":
		return m.switchTo(m.current - 1)
	case "r":
		if w := m.widget(); w != nil {
			if err := w.Load(m.ctx); err != nil {
				m.status = "ERR: " + err.Error()
			} else {
				m.status = "Reloaded"
			}
		}
		m.refresh()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			buttons := m.buttons()
			if i := int(key[0] - '1'); i < len(buttons) {
				return m.dispatch(widget.Action{Type: buttons[i].Type})
			}
		}
	}
	return nil
}

func (m *Model) handleInsertKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		f := m.view.Forms[m.form]
		a := widget.Action{Type: f.Action}
		value := m.input.Value()
		switch f.Field {
		case widget.InputID:
			a.ID = value
		case widget.InputValue:
			a.Value = value
		default:
			a.Text = value
		}
		// edit-style forms apply to the selected row
		if row, ok := m.selectedRow(); ok && a.ID == "" && m.rowSpec(f.Action) {
			a.ID = row.ID
		}
		m.leaveInput()
		return m.dispatch(a)
	case "esc":
		m.leaveInput()
		m.status = "Cancelled"
	case "tab":
		if len(m.view.Forms) > 1 {
			return m.enterInsert((m.form + 1) % len(m.view.Forms))
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.leaveInput()
	case "esc":
		m.leaveInput()
		m.setQuery("")
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.setQuery(m.input.Value())
		return cmd
	}
	return nil
}

func (m *Model) enterInsert(form int) tea.Cmd {
	f := m.view.Forms[form]
	m.mode = modeInsert
	m.form = form
	m.input.Reset()
	m.input.Placeholder = f.Placeholder
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) leaveInput() {
	m.mode = modeNormal
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) setQuery(q string) {
	w := m.widget()
	if w == nil {
		return
	}
	ui := w.UI()
	ui.Query = q
	w.SetUI(ui)
	m.cursor = 0
	m.refresh()
}

func (m *Model) switchTo(i int) tea.Cmd {
	if len(m.widgets) < 2 {
		return nil
	}
	m.current = (i + len(m.widgets)) % len(m.widgets)
	m.cursor = 0
	m.tickGen++
	m.refresh()
	m.status = m.view.Title
	return m.scheduleTick()
}

func (m *Model) selectedRow() (widget.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return widget.Row{}, false
	}
	return m.view.Rows[m.cursor], true
}

// rowSpec reports whether the action targets an existing row.
func (m *Model) rowSpec(action string) bool {
	for _, s := range m.widget().Actions() {
		if s.Type == action {
			return s.Row
		}
	}
	return false
}

// buttons are the argument-free widget actions bound to 1-9.
func (m *Model) buttons() []widget.ActionSpec {
	w := m.widget()
	if w == nil {
		return nil
	}
	var out []widget.ActionSpec
	for _, s := range w.Actions() {
		if !s.Row && s.Input == widget.InputNone {
			out = append(out, s)
		}
	}
	return out
}

func (m *Model) rowAction(action string) tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		return nil
	}
	for _, b := range m.view.RowActions {
		if b.Action == action {
			return m.dispatch(widget.Action{Type: action, ID: row.ID})
		}
	}
	return nil
}

func (m *Model) dispatch(a widget.Action) tea.Cmd {
	w := m.widget()
	if w == nil {
		return nil
	}
	res, err := w.Dispatch(m.ctx, a)
	m.refresh()
	switch {
	case errors.Is(err, widget.ErrUnknownAction):
		m.status = "Unsupported: " + a.Type
	case err != nil:
		m.status = "ERR: " + err.Error()
	case res.Rejected:
		m.status = ""
		return tea.Tick(widget.DefaultFeedback, func(time.Time) tea.Msg { return feedbackMsg{} })
	case res.Changed:
		m.status = "Saved " + a.Type
	default:
		m.status = "No change"
	}
	return nil
}

// View renders the current widget with input and help overlays
func (m Model) View() string {
	th := m.theme
	var b strings.Builder

	if len(m.widgets) > 1 {
		tabs := make([]string, 0, len(m.widgets))
		for i, w := range m.widgets {
			if i == m.current {
				tabs = append(tabs, th.Row.Selected.Render("["+w.Name()+"]"))
			} else {
				tabs = append(tabs, th.Footer.Help.Render(" "+w.Name()+" "))
			}
		}
		b.WriteString(strings.Join(tabs, " ") + "\n\n")
	}

	b.WriteString(th.Title.Render(m.view.Title) + "\n")
	if m.view.Feedback != "" {
		b.WriteString(th.Feedback.Render("! "+m.view.Feedback) + "\n")
	}
	for _, s := range m.view.Stats {
		line := fmt.Sprintf("%s  %s", s.Label, s.Value)
		if s.Bar != widget.NoBar {
			line += "  " + printers.Bar(s.Bar, 20)
		}
		b.WriteString(th.Stat.Render(line) + "\n")
	}
	if len(m.view.Grid) > 0 {
		b.WriteString(th.Grid.Render(strings.Join(m.view.Grid, "\n")) + "\n")
	}
	b.WriteString("\n")

	if len(m.view.Rows) == 0 && m.view.Empty != "" {
		b.WriteString(th.Empty.Render(m.view.Empty) + "\n")
	}
	for i, r := range m.view.Rows {
		b.WriteString(m.renderRow(r, i == m.cursor) + "\n")
	}

	switch m.mode {
	case modeInsert:
		b.WriteString("\n" + m.view.Forms[m.form].Label + ": " + m.input.View() + "\n")
	case modeSearch:
		b.WriteString("\n/" + m.input.View() + "\n")
	case modeHelp:
		help := "Keys: j/k move, g/G top/bottom, enter/space first row action, d delete, p pin, a add (tab next form), / search, esc clear search, tab/h/l switch widget, 1-9 widget actions, r reload, q quit"
		b.WriteString("\n" + lipgloss.NewStyle().Italic(true).Render(m.wrap(help)) + "\n")
	}

	if buttons := m.buttons(); len(buttons) > 0 {
		parts := make([]string, 0, len(buttons))
		for i, s := range buttons {
			if i >= 9 {
				break
			}
			parts = append(parts, th.Footer.Key.Render(fmt.Sprint(i+1))+" "+s.Type)
		}
		b.WriteString("\n" + strings.Join(parts, "  ") + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + th.Footer.Status.Render(m.status))
	}
	return b.String()
}

func (m Model) renderRow(r widget.Row, selected bool) string {
	th := m.theme
	marker := "  "
	if selected {
		marker = glyph.Cursor.String() + " "
	}
	icon := r.Icon
	if icon == "" {
		icon = glyph.ForRow(r).String()
	}

	style := th.Row.Normal
	switch {
	case selected:
		style = th.Row.Selected
	case r.Done:
		style = th.Row.Done
	}

	var label strings.Builder
	for i, s := range render.Spans(m.wrap(r.Label), m.view.Query) {
		if i%2 == 1 {
			label.WriteString(th.Row.Match.Render(s))
		} else {
			label.WriteString(style.Render(s))
		}
	}
	line := marker + icon + " " + label.String()
	if r.Detail != "" {
		line += "  " + th.Row.Detail.Render(r.Detail)
	}
	return line
}

func (m Model) wrap(s string) string {
	if m.termWidth <= 8 {
		return s
	}
	return wordwrap.String(s, m.termWidth-6)
}

// Run loads the named widgets and launches the popup.
func Run(ctx context.Context, set *catalog.Set, names []string, opts ...Option) error {
	widgets := make([]widget.Widget, 0, len(names))
	for _, name := range names {
		w, err := set.Get(ctx, name)
		if err != nil {
			return err
		}
		widgets = append(widgets, w)
	}
	opts = append([]Option{WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(widgets, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
