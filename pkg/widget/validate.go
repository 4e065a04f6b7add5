package widget

import (
	"math"
	"strconv"
	"strings"
)

// RequireText trims s and rejects it when empty.
func RequireText(s, message string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Invalid("%s", message)
	}
	return s, nil
}

// ParseAmount parses a positive money amount such as "12.50" or "$3". At most
// one leading currency symbol and thousands separators are accepted.
func ParseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	for _, sym := range []string{"$", "€", "£", "¥"} {
		if strings.HasPrefix(clean, sym) {
			clean = strings.TrimSpace(strings.TrimPrefix(clean, sym))
			break
		}
	}
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return 0, Invalid("Enter an amount")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, Invalid("%q is not a number", strings.TrimSpace(s))
	}
	v = math.Round(v*100) / 100
	if v <= 0 {
		return 0, Invalid("Amount must be positive")
	}
	return v, nil
}

// ParseCount parses a whole number in [lo, hi].
func ParseCount(s string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, Invalid("%q is not a whole number", strings.TrimSpace(s))
	}
	if v < lo || v > hi {
		return 0, Invalid("Choose a number between %d and %d", lo, hi)
	}
	return v, nil
}
