package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/widgets/pkg/commands/options"
	"tableflip.dev/widgets/pkg/widget"
	"tableflip.dev/widgets/pkg/widgets/clips"
)

// clipboard access, swapped in tests
var (
	readClipboard  = clipboard.ReadAll
	writeClipboard = clipboard.WriteAll
)

func addCopy(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "copy the newest clip, or --id, to the system clipboard",
		Example: `
widgets copy
widgets copy --id l9x2k3-1a2b3c4d
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			w, err := s.set.Get(cmd.Context(), clips.Name)
			if err != nil {
				return err
			}
			text, err := clipText(w, io.ID)
			if err != nil {
				return err
			}
			if err := writeClipboard(text); err != nil {
				// no clipboard (headless session): hand the text over on stdout
				_, _ = fmt.Fprintf(os.Stderr, "warning: clipboard unavailable: %v\n", err)
				_, _ = fmt.Fprintln(color.Output, text)
				return nil
			}
			_, _ = color.New(color.Faint).Fprintln(color.Output, "copied")
			return nil
		},
	}
	options.AddIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addPaste(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "paste",
		Short: "save the system clipboard as a clip",
		Example: `
widgets paste
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession()
			if err != nil {
				return err
			}
			w, err := s.set.Get(ctx, clips.Name)
			if err != nil {
				return err
			}
			if err := paste(ctx, w); err != nil {
				return err
			}
			s.flush(ctx)
			return show(w, &options.OutputOptions{}, &options.IDOptions{}, &options.ViewOptions{})
		},
	}

	topLevel.AddCommand(cmd)
}

// clipText finds the clip text to copy: id when set, else the newest clip.
func clipText(w widget.Widget, id string) (string, error) {
	c, ok := w.(*widget.Controller[clips.State])
	if !ok {
		return "", fmt.Errorf("%s is not the clips widget", w.Name())
	}
	state := c.State()
	if id == "" {
		clip, ok := clips.Latest(state)
		if !ok {
			return "", errors.New("no clips saved yet")
		}
		return clip.Text, nil
	}
	for _, clip := range state.Clips {
		if clip.ID == id {
			return clip.Text, nil
		}
	}
	return "", fmt.Errorf("no clip with id %q", id)
}

// paste adds the clipboard contents. A missing clipboard only warns.
func paste(ctx context.Context, w widget.Widget) error {
	text, err := readClipboard()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "warning: clipboard unavailable: %v\n", err)
		return nil
	}
	return do(ctx, w, widget.Action{Type: clips.ActionAdd, Text: text})
}
