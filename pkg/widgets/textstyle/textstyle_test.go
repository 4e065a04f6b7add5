package textstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/widgets/pkg/widget"
)

func TestStyles(t *testing.T) {
	tests := map[string]struct {
		in, want string
	}{
		"bold":      {"Ab1", "𝐀𝐛𝟏"},
		"italic":    {"ah", "𝑎ℎ"},
		"script":    {"Be", "ℬℯ"},
		"mono":      {"x9", "𝚡𝟿"},
		"fullwidth": {"Hi !", "Ｈｉ　！"},
		"circled":   {"a0", "ⓐ⓪"},
		"smallcaps": {"Go", "ɢᴏ"},
	}
	for key, tc := range tests {
		st, ok := Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, tc.want, st.Apply(tc.in), key)
	}
	bold, _ := Lookup("bold")
	assert.Equal(t, "ü-é", bold.Apply("ü-é"), "unmapped runes pass through")
}

func TestSaveAndDelete(t *testing.T) {
	env := widget.Env{NewID: func() string { return "f1" }}
	s := Definition().Default()
	_, err := Reduce(s, widget.Action{Type: ActionSave}, env)
	var verr *widget.ValidationError
	require.ErrorAs(t, err, &verr)

	s, err = Reduce(s, widget.Action{Type: ActionSetText, Text: "hey"}, env)
	require.NoError(t, err)
	s, err = Reduce(s, widget.Action{Type: ActionStyle, Value: "Circled"}, env)
	require.NoError(t, err)
	s, err = Reduce(s, widget.Action{Type: ActionSave}, env)
	require.NoError(t, err)
	require.Len(t, s.Favorites, 1)
	assert.Equal(t, "ⓗⓔⓨ", s.Favorites[0].Output)

	_, err = Reduce(s, widget.Action{Type: ActionSave}, env)
	assert.ErrorIs(t, err, widget.ErrNoChange)

	_, err = Reduce(s, widget.Action{Type: ActionStyle, Value: "wingdings"}, env)
	assert.ErrorAs(t, err, &verr)

	v := View(s, widget.UIState{}, env.Now)
	assert.Len(t, v.Grid, len(Styles))
	assert.Equal(t, "ⓗⓔⓨ", v.Stats[0].Value)

	s, err = Reduce(s, widget.Action{Type: ActionDelete, ID: "f1"}, env)
	require.NoError(t, err)
	assert.Empty(t, s.Favorites)
}

func TestNormalizeUnknownStyle(t *testing.T) {
	s := normalize(State{Style: "gone"})
	assert.Equal(t, "bold", s.Style)
	assert.NotNil(t, s.Favorites)
}
