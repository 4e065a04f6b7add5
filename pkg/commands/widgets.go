package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/background"
	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/commands/options"
	"tableflip.dev/widgets/pkg/printers"
	"tableflip.dev/widgets/pkg/render"
	"tableflip.dev/widgets/pkg/widget"
)

func addList(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list the available widgets",
		Example: `
widgets list
widgets list --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}

			badges := map[string]string{}
			agent := background.New(s.store)
			if err := agent.Start(ctx); err == nil {
				badges = agent.Badges()
				agent.Stop()
			}

			type row struct {
				Name  string `json:"name"`
				Title string `json:"title"`
				Badge string `json:"badge,omitempty"`
			}
			rows := make([]row, 0, len(catalog.Names()))
			for _, name := range catalog.Names() {
				w, err := catalog.New(name, s.store)
				if err != nil {
					return oo.HandleError(err)
				}
				rows = append(rows, row{Name: name, Title: w.Title(), Badge: badges[name]})
			}
			if oo.JSON {
				return oo.Print(rows)
			}

			bold := color.New(color.Bold)
			faint := color.New(color.Faint)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Widget"), bold.Sprint("Title"), bold.Sprint("Badge"))
			for _, r := range rows {
				tbl.AddRow(r.Name, faint.Sprint(r.Title), r.Badge)
			}
			_, _ = fmt.Fprintln(color.Output, tbl)
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	io := &options.IDOptions{}
	vo := &options.ViewOptions{}

	cmd := &cobra.Command{
		Use:   "show <widget>",
		Short: "print the current view of a widget",
		Example: `
widgets show tasks
widgets show bookmarks --query go -k
widgets show budget --json
widgets show clips --html
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: catalog.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			w, err := s.set.Get(cmd.Context(), args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(show(w, oo, io, vo))
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	options.AddViewArgs(cmd, vo)

	topLevel.AddCommand(cmd)
}

func show(w widget.Widget, oo *options.OutputOptions, io *options.IDOptions, vo *options.ViewOptions) error {
	ui := w.UI()
	ui.Query = vo.Query
	w.SetUI(ui)
	v := w.View()

	switch {
	case oo.JSON:
		return oo.Print(v)
	case vo.HTML:
		markup, err := render.HTML(v, "/w/"+w.Name()+"/actions")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(color.Output, markup)
		return nil
	}
	pp := printers.PrettyPrint{ShowID: io.ShowID}
	pp.View(v)
	return nil
}

func addDo(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	io := &options.IDOptions{}
	ao := &options.ActionOptions{}

	long := strings.Builder{}
	long.WriteString("Apply one action to a widget and print the result.\n\n")
	long.WriteString("Actions per widget:\n")
	for _, name := range catalog.Names() {
		w, err := catalog.New(name, nil)
		if err != nil {
			continue
		}
		types := make([]string, 0, len(w.Actions()))
		for _, a := range w.Actions() {
			types = append(types, a.Type)
		}
		long.WriteString(fmt.Sprintf("%s: %s\n", name, strings.Join(types, ", ")))
	}

	cmd := &cobra.Command{
		Use:   "do <widget> <action>",
		Short: "apply an action to a widget",
		Long:  long.String(),
		Example: `
widgets do tasks add --text "Buy milk"
widgets do tasks toggle --id l9x2k3-1a2b3c4d
widgets do budget spend --value 12.50 --text lunch
widgets do timer start --value 25m
`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return widgetCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession()
			if err != nil {
				return oo.HandleError(err)
			}
			w, err := s.set.Get(ctx, args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			err = do(ctx, w, ao.Action(args[1]))
			s.flush(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(show(w, oo, io, &options.ViewOptions{}))
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	options.AddActionArgs(cmd, ao)

	topLevel.AddCommand(cmd)
}

// do dispatches a and turns a rejection into an error for the exit status.
func do(ctx context.Context, w widget.Widget, a widget.Action) error {
	res, err := w.Dispatch(ctx, a)
	switch {
	case errors.Is(err, widget.ErrUnknownAction):
		return fmt.Errorf("%s does not support %q", w.Name(), a.Type)
	case err != nil:
		return err
	case res.Rejected:
		return errors.New(res.Feedback)
	case !res.Changed:
		_, _ = color.New(color.Faint).Fprintln(color.Output, "no change")
	}
	return nil
}
