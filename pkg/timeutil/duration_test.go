package timeutil

import (
	"testing"
	"time"
)

func TestParseSpanFallback(t *testing.T) {
	dur, err := ParseSpan("", 25*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 25*time.Minute {
		t.Fatalf("expected fallback, got %v", dur)
	}
}

func TestParseSpanComposite(t *testing.T) {
	dur, err := ParseSpan("1h 30m 15s", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Hour + 30*time.Minute + 15*time.Second
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
}

func TestParseSpanBareMinutes(t *testing.T) {
	dur, err := ParseSpan("5", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 5*time.Minute {
		t.Fatalf("expected 5m, got %v", dur)
	}
}

func TestParseSpanInvalid(t *testing.T) {
	for _, in := range []string{"noop", "0m", "3 fortnights"} {
		if _, err := ParseSpan(in, 0); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseSpanOverflow(t *testing.T) {
	for _, in := range []string{"9999999999999w", "106751d 106751d"} {
		if dur, err := ParseSpan(in, 0); err == nil {
			t.Fatalf("expected overflow error for %q, got %v", in, dur)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		-time.Second:                    "00:00",
		0:                               "00:00",
		1500 * time.Millisecond:         "00:02",
		25 * time.Minute:                "25:00",
		time.Hour + 2*time.Minute + 3e9: "1:02:03",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%v) = %q, want %q", in, got, want)
		}
	}
}
