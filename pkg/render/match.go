package render

import (
	"html/template"
	"strings"
	"unicode"
)

// Matches reports whether query appears, case-insensitively, in any field.
// An empty query matches everything.
func Matches(query string, fields ...string) bool {
	q := fold(strings.TrimSpace(query))
	if len(q) == 0 {
		return true
	}
	for _, f := range fields {
		if index(fold(f), q, 0) >= 0 {
			return true
		}
	}
	return false
}

// Highlight escapes text and wraps every case-insensitive match of query in
// <mark>. The underlying text is untouched.
func Highlight(text, query string) template.HTML {
	q := fold(strings.TrimSpace(query))
	if len(q) == 0 {
		return template.HTML(template.HTMLEscapeString(text))
	}
	runes := []rune(text)
	folded := fold(text)
	var b strings.Builder
	last := 0
	for i := index(folded, q, 0); i >= 0; i = index(folded, q, last) {
		b.WriteString(template.HTMLEscapeString(string(runes[last:i])))
		b.WriteString("<mark>")
		b.WriteString(template.HTMLEscapeString(string(runes[i : i+len(q)])))
		b.WriteString("</mark>")
		last = i + len(q)
	}
	b.WriteString(template.HTMLEscapeString(string(runes[last:])))
	return template.HTML(b.String())
}

// Spans splits text into alternating unmatched/matched segments for
// non-HTML renderers. Odd indexes are matches.
func Spans(text, query string) []string {
	q := fold(strings.TrimSpace(query))
	runes := []rune(text)
	if len(q) == 0 {
		return []string{text}
	}
	folded := fold(text)
	var out []string
	last := 0
	for i := index(folded, q, 0); i >= 0; i = index(folded, q, last) {
		out = append(out, string(runes[last:i]), string(runes[i:i+len(q)]))
		last = i + len(q)
	}
	return append(out, string(runes[last:]))
}

// fold lower-cases rune by rune so indexes line up with the original text.
func fold(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func index(haystack, needle []rune, from int) int {
	if len(needle) == 0 {
		return -1
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
