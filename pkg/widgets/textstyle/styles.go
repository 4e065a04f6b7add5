package textstyle

import "unicode"

// Style maps plain text to a Unicode look-alike alphabet.
type Style struct {
	Key   string
	Label string
	fn    func(rune) rune
}

// Apply converts text rune by rune. Runes without a mapping pass through.
func (s Style) Apply(text string) string {
	out := []rune(text)
	for i, r := range out {
		out[i] = s.fn(r)
	}
	return string(out)
}

// offsets builds a mapper from the first upper, lower and digit code points
// of a mathematical alphabet. Zero means "no mapping". holes override single
// letters that live outside the contiguous block.
func offsets(upper, lower, digit rune, holes map[rune]rune) func(rune) rune {
	return func(r rune) rune {
		if h, ok := holes[r]; ok {
			return h
		}
		switch {
		case r >= 'A' && r <= 'Z' && upper != 0:
			return upper + r - 'A'
		case r >= 'a' && r <= 'z' && lower != 0:
			return lower + r - 'a'
		case r >= '0' && r <= '9' && digit != 0:
			return digit + r - '0'
		}
		return r
	}
}

func fullwidth(r rune) rune {
	switch {
	case r == ' ':
		return '　'
	case r >= '!' && r <= '~':
		return r + 0xFEE0
	}
	return r
}

func circled(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return 0x24B6 + r - 'A'
	case r >= 'a' && r <= 'z':
		return 0x24D0 + r - 'a'
	case r == '0':
		return 0x24EA
	case r >= '1' && r <= '9':
		return 0x2460 + r - '1'
	}
	return r
}

var smallCapsTable = []rune("ᴀʙᴄᴅᴇꜰɢʜɪᴊᴋʟᴍɴᴏᴘǫʀsᴛᴜᴠᴡxʏᴢ")

func smallCaps(r rune) rune {
	l := unicode.ToLower(r)
	if l >= 'a' && l <= 'z' {
		return smallCapsTable[l-'a']
	}
	return r
}

// Styles lists every style in display order.
var Styles = []Style{
	{Key: "bold", Label: "Bold", fn: offsets(0x1D400, 0x1D41A, 0x1D7CE, nil)},
	{Key: "italic", Label: "Italic", fn: offsets(0x1D434, 0x1D44E, 0, map[rune]rune{'h': 0x210E})},
	{Key: "script", Label: "Script", fn: offsets(0x1D49C, 0x1D4B6, 0, map[rune]rune{
		'B': 0x212C, 'E': 0x2130, 'F': 0x2131, 'H': 0x210B, 'I': 0x2110, 'L': 0x2112, 'M': 0x2133, 'R': 0x211B,
		'e': 0x212F, 'g': 0x210A, 'o': 0x2134,
	})},
	{Key: "mono", Label: "Monospace", fn: offsets(0x1D670, 0x1D68A, 0x1D7F6, nil)},
	{Key: "fullwidth", Label: "Fullwidth", fn: fullwidth},
	{Key: "circled", Label: "Circled", fn: circled},
	{Key: "smallcaps", Label: "Small caps", fn: smallCaps},
}

// Lookup finds a style by key.
func Lookup(key string) (Style, bool) {
	for _, s := range Styles {
		if s.Key == key {
			return s, true
		}
	}
	return Style{}, false
}
