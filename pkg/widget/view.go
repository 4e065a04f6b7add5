package widget

// View is the presentation-neutral projection of a widget's state. Markup,
// terminal and TUI renderers all consume it.
type View struct {
	Widget   string   `json:"widget"`
	Title    string   `json:"title"`
	Rows     []Row    `json:"rows"`
	Empty    string   `json:"empty,omitempty"`
	Stats    []Stat   `json:"stats,omitempty"`
	Grid     []string `json:"grid,omitempty"`
	Query    string   `json:"query,omitempty"`
	Feedback string   `json:"feedback,omitempty"`
	Forms    []Form   `json:"forms,omitempty"`
	// Buttons run argument-free actions on the whole widget.
	Buttons []Button `json:"buttons,omitempty"`
	// RowActions are offered on every row.
	RowActions []Button `json:"rowActions,omitempty"`
}

// Row is one rendered item.
type Row struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
	Icon   string `json:"icon,omitempty"`
	Done   bool   `json:"done,omitempty"`
	Pinned bool   `json:"pinned,omitempty"`
}

// NoBar marks a Stat without a progress bar.
const NoBar = -1

// Stat is an aggregate line, optionally with a progress bar in [0, 100].
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Bar   int    `json:"bar"`
}

// Form is a single-field input bound to an action.
type Form struct {
	Action      string `json:"action"`
	Field       Input  `json:"field"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Button triggers an action on a row or on the whole widget.
type Button struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

// UIState is transient presentation state. It is never persisted.
type UIState struct {
	Query    string `json:"query,omitempty"`
	Filter   string `json:"filter,omitempty"`
	Selected int    `json:"selected,omitempty"`
}

// Row returns the row with id, if present.
func (v View) Row(id string) (Row, bool) {
	for _, r := range v.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}
