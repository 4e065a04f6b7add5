// Package mcp provides the Model Context Protocol server integration for widgets.
package mcp

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

// Service coordinates controller calls shared by the MCP tools and resources.
type Service struct {
	Widgets *catalog.Set
}

// ActionDTO documents one action a widget accepts.
type ActionDTO struct {
	Type  string `json:"type"`
	Help  string `json:"help,omitempty"`
	Input string `json:"input,omitempty"`
	Row   bool   `json:"row,omitempty"`
}

// WidgetSummary describes a widget and its current size.
type WidgetSummary struct {
	Name    string      `json:"name"`
	Title   string      `json:"title"`
	Rows    int         `json:"rows"`
	Actions []ActionDTO `json:"actions"`
}

// Rendered is a view optionally accompanied by its popup markup.
type Rendered struct {
	View   widget.View `json:"view"`
	Markup string      `json:"markup,omitempty"`
}

// Dispatched reports the outcome of an action.
type Dispatched struct {
	Result widget.Result `json:"result"`
	View   widget.View   `json:"view"`
	// Warning is set when the change applied but could not be saved.
	Warning string `json:"warning,omitempty"`
}

// NewService builds a service over a widget set.
func NewService(set *catalog.Set) *Service {
	return &Service{Widgets: set}
}

// ListWidgets loads and summarizes every registered widget.
func (s *Service) ListWidgets(ctx context.Context) ([]WidgetSummary, error) {
	if s.Widgets == nil {
		return nil, errors.New("widgets are not configured")
	}
	out := make([]WidgetSummary, 0, len(catalog.Names()))
	for _, name := range catalog.Names() {
		w, err := s.Widgets.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, WidgetSummary{
			Name:    name,
			Title:   w.Title(),
			Rows:    len(w.View().Rows),
			Actions: toActionDTOs(w.Actions()),
		})
	}
	return out, nil
}

// Render returns the current view of name, filtered by query. With markup
// set the popup HTML is included.
func (s *Service) Render(ctx context.Context, name, query string, markup bool) (*Rendered, error) {
	w, err := s.get(ctx, name)
	if err != nil {
		return nil, err
	}
	ui := w.UI()
	ui.Query = strings.TrimSpace(query)
	w.SetUI(ui)

	out := &Rendered{View: w.View()}
	if markup {
		html, err := render.HTML(out.View, "/w/"+name+"/actions")
		if err != nil {
			return nil, err
		}
		out.Markup = html
	}
	return out, nil
}

// Dispatch applies a to name. Rejections are reported in the result, not as
// errors; a failed save is reported as a warning since the change stays in
// memory.
func (s *Service) Dispatch(ctx context.Context, name string, a widget.Action) (*Dispatched, error) {
	w, err := s.get(ctx, name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Type) == "" {
		return nil, errors.New("action type is required")
	}
	res, err := w.Dispatch(ctx, a)
	out := &Dispatched{Result: res, View: w.View()}
	switch {
	case errors.Is(err, widget.ErrUnknownAction):
		return nil, err
	case err != nil:
		out.Warning = err.Error()
	}
	return out, nil
}

func (s *Service) get(ctx context.Context, name string) (widget.Widget, error) {
	if s.Widgets == nil {
		return nil, errors.New("widgets are not configured")
	}
	if name == "" {
		return nil, errors.New("widget name is required")
	}
	return s.Widgets.Get(ctx, name)
}

func toActionDTOs(specs []widget.ActionSpec) []ActionDTO {
	out := make([]ActionDTO, 0, len(specs))
	for _, s := range specs {
		out = append(out, ActionDTO{Type: s.Type, Help: s.Help, Input: string(s.Input), Row: s.Row})
	}
	return out
}
