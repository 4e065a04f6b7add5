package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/widget"
)

// ActionOptions carries the arguments of a widget action.
type ActionOptions struct {
	ID    string
	Text  string
	Value string
}

func AddActionArgs(cmd *cobra.Command, o *ActionOptions) {
	cmd.Flags().StringVar(&o.ID, "id", "",
		"Row the action applies to.")
	cmd.Flags().StringVarP(&o.Text, "text", "t", "",
		"Text argument, such as a task title or a URL.")
	cmd.Flags().StringVarP(&o.Value, "value", "v", "",
		"Value argument, such as an amount or a duration.")
}

// Action builds the action of the given type.
func (o *ActionOptions) Action(typ string) widget.Action {
	return widget.Action{Type: typ, ID: o.ID, Text: o.Text, Value: o.Value}
}

// ViewOptions control how a widget is shown.
type ViewOptions struct {
	Query string
	HTML  bool
}

func AddViewArgs(cmd *cobra.Command, o *ViewOptions) {
	AddQueryArg(cmd, o)
	cmd.Flags().BoolVar(&o.HTML, "html", false,
		"Print the popup markup instead of text.")
}

func AddQueryArg(cmd *cobra.Command, o *ViewOptions) {
	cmd.Flags().StringVarP(&o.Query, "query", "q", "",
		"Only show rows matching the query.")
}
