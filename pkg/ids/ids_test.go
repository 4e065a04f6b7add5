package ids

import (
	"strings"
	"testing"
	"time"
)

func TestNewShape(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := New(now)
	prefix, suffix, ok := strings.Cut(id, "-")
	if !ok {
		t.Fatalf("expected timestamp-suffix, got %q", id)
	}
	if prefix != "loyw3v28" {
		t.Fatalf("unexpected timestamp part %q", prefix)
	}
	if len(suffix) != 8 {
		t.Fatalf("expected 8 char suffix, got %q", suffix)
	}
}

func TestGeneratorUniqueAtFrozenClock(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	g := Generator{Clock: func() time.Time { return frozen }}
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d ids", id, i)
		}
		seen[id] = true
	}
}

func TestGeneratorSkipsTaken(t *testing.T) {
	calls := 0
	g := Generator{Taken: func(string) bool {
		calls++
		return calls < 3
	}}
	_ = g.Next()
	if calls != 3 {
		t.Fatalf("expected generator to retry until free, calls=%d", calls)
	}
}
