// Package stats computes the derived values widgets show: percentages and
// averages. Nothing here is ever persisted.
package stats

import (
	"fmt"
	"math"
	"time"

	"tableflip.dev/widgets/pkg/timeutil"
)

// Ratio is a percentage whose raw value may exceed 100.
type Ratio struct {
	raw float64
}

// Percentage returns part/whole as a percentage. A zero or negative whole
// yields 0.
func Percentage(part, whole float64) Ratio {
	if whole <= 0 || math.IsNaN(part) || math.IsNaN(whole) {
		return Ratio{}
	}
	return Ratio{raw: part / whole * 100}
}

// Raw is the unclamped percentage.
func (r Ratio) Raw() float64 { return r.raw }

// Display is the percentage clamped to [0, 100] for progress bars.
func (r Ratio) Display() float64 {
	return math.Max(0, math.Min(100, r.raw))
}

// Bar is Display rounded to a whole number.
func (r Ratio) Bar() int {
	return int(math.Round(r.Display()))
}

// Over reports whether the raw value exceeds 100%.
func (r Ratio) Over() bool { return r.raw > 100 }

func (r Ratio) String() string {
	return fmt.Sprintf("%.0f%%", r.raw)
}

// Average returns the mean of values, 0 when empty.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// TrailingAverage averages history over the days calendar days ending today
// (includeToday) or yesterday. Missing days count as zero.
func TrailingAverage(history map[string]int, today time.Time, days int, includeToday bool) float64 {
	if days <= 0 {
		return 0
	}
	end := timeutil.DayKey(today)
	if !includeToday {
		end = timeutil.ShiftDay(end, -1)
	}
	values := make([]float64, 0, days)
	for i := 0; i < days; i++ {
		values = append(values, float64(history[timeutil.ShiftDay(end, -i)]))
	}
	return Average(values)
}

// CompletionRate is the percentage of the window days ending yesterday that
// appear in done. Today is excluded so an unfinished day never drags the rate.
func CompletionRate(done map[string]bool, today time.Time, window int) Ratio {
	if window <= 0 {
		return Ratio{}
	}
	end := timeutil.ShiftDay(timeutil.DayKey(today), -1)
	hits := 0
	for i := 0; i < window; i++ {
		if done[timeutil.ShiftDay(end, -i)] {
			hits++
		}
	}
	return Percentage(float64(hits), float64(window))
}
