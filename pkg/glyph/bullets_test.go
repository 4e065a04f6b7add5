package glyph

import (
	"testing"

	"tableflip.dev/widgets/pkg/widget"
)

func TestForRow(t *testing.T) {
	cases := []struct {
		row  widget.Row
		want Bullet
	}{
		{widget.Row{}, Open},
		{widget.Row{Done: true}, Done},
		{widget.Row{Done: true, Pinned: true}, Pinned},
	}
	for _, tc := range cases {
		if got := ForRow(tc.row); got != tc.want {
			t.Fatalf("ForRow(%+v) = %v, want %v", tc.row, got.Glyph().Meaning, tc.want.Glyph().Meaning)
		}
	}
}

func TestStrikeWraps(t *testing.T) {
	if got := Strike("x"); got != "\x1b[9mx\x1b[0m" {
		t.Fatalf("unexpected escape %q", got)
	}
}
