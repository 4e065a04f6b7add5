package qrcode

import (
	"fmt"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/widget"
)

func TestEncodeFindersAndTiming(t *testing.T) {
	m := Encode("hello")
	for _, o := range [][2]int{{0, 0}, {0, Modules - 7}, {Modules - 7, 0}} {
		assert.True(t, m[o[0]][o[1]], "finder corner %v", o)
		assert.False(t, m[o[0]+1][o[1]+1], "finder inner ring %v", o)
		assert.True(t, m[o[0]+3][o[1]+3], "finder core %v", o)
	}
	assert.False(t, m[7][7], "separator")
	for i := 8; i < Modules-8; i++ {
		assert.Equal(t, i%2 == 0, m[6][i])
		assert.Equal(t, i%2 == 0, m[i][6])
	}
	assert.Equal(t, m, Encode("hello"))
	assert.NotEqual(t, m, Encode("hello!"))
}

func TestLines(t *testing.T) {
	lines := Encode("x").Lines()
	require.Len(t, lines, Modules+2)
	for _, l := range lines {
		assert.Equal(t, (Modules+2)*2, utf8.RuneCountInString(l))
	}
}

func TestHistory(t *testing.T) {
	n := 0
	env := widget.Env{Now: time.Now(), NewID: func() string { n++; return fmt.Sprint(n) }}
	s := Definition().Default()
	var err error
	for i := 0; i < HistorySize+3; i++ {
		s, err = Reduce(s, widget.Action{Type: ActionEncode, Text: fmt.Sprintf("text %d", i)}, env)
		require.NoError(t, err)
	}
	assert.Len(t, s.History, HistorySize)
	assert.Equal(t, "text 12", s.Current)

	s, err = Reduce(s, widget.Action{Type: ActionEncode, Text: "text 5"}, env)
	require.NoError(t, err)
	assert.Equal(t, "text 5", s.History[0].Text)
	assert.Len(t, s.History, HistorySize)

	v := View(s, widget.UIState{}, env.Now)
	assert.Len(t, v.Grid, Modules+2)
	assert.True(t, v.Rows[0].Done)

	_, err = Reduce(s, widget.Action{Type: ActionEncode, Text: " "}, env)
	var verr *widget.ValidationError
	assert.ErrorAs(t, err, &verr)

	s, err = Reduce(s, widget.Action{Type: ActionClear}, env)
	require.NoError(t, err)
	assert.Empty(t, View(s, widget.UIState{}, env.Now).Grid)
}
