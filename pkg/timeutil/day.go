// Package timeutil holds the calendar helpers widgets share: local day keys,
// rollover detection, streaks and human durations.
package timeutil

import (
	"time"
)

const (
	// DayLayout is the normalized calendar-day bucket key.
	DayLayout = "2006-01-02"
	// MonthLayout buckets by calendar month.
	MonthLayout = "2006-01"
)

// DayKey returns the local calendar-day key for t.
func DayKey(t time.Time) string {
	return t.Local().Format(DayLayout)
}

// MonthKey returns the local calendar-month key for t.
func MonthKey(t time.Time) string {
	return t.Local().Format(MonthLayout)
}

// ParseDay parses a day key as local noon, which keeps day arithmetic clear of
// DST transitions.
func ParseDay(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, key, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return noon(t), nil
}

// ShiftDay returns the key n days after key (n may be negative). Invalid keys
// are returned unchanged.
func ShiftDay(key string, n int) string {
	t, err := ParseDay(key)
	if err != nil {
		return key
	}
	return t.AddDate(0, 0, n).Format(DayLayout)
}

// IsNewDay reports whether now falls on a different calendar day than the
// stored last-seen key.
func IsNewDay(last string, now time.Time) bool {
	return last != DayKey(now)
}

// DaysBetween counts whole calendar days from key a to key b.
func DaysBetween(a, b string) (int, bool) {
	ta, err := ParseDay(a)
	if err != nil {
		return 0, false
	}
	tb, err := ParseDay(b)
	if err != nil {
		return 0, false
	}
	return int(tb.Sub(ta).Round(24*time.Hour) / (24 * time.Hour)), true
}

// Within reports whether key is no more than days calendar days before now.
// Keys after now count as within.
func Within(key string, now time.Time, days int) bool {
	n, ok := DaysBetween(key, DayKey(now))
	if !ok {
		return false
	}
	return n <= days
}

// Streak counts consecutive calendar days with a completion, ending today or,
// when today has no completion yet, ending yesterday. A pending today never
// breaks an otherwise continuous run.
func Streak(done map[string]bool, today time.Time) int {
	cursor := noon(today.Local())
	if !done[cursor.Format(DayLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	count := 0
	for done[cursor.Format(DayLayout)] {
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return count
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}

func noon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local)
}
