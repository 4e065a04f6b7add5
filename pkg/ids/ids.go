// Package ids generates item identifiers: a base36 millisecond timestamp with
// a random suffix, unique within a single-writer collection.
package ids

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns an id for an item created at now.
func New(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix
}

// Generator hands out ids that do not collide with ids it has already issued
// or ids reported by Taken.
type Generator struct {
	Clock func() time.Time
	Taken func(id string) bool

	issued map[string]struct{}
}

// Next returns a fresh id.
func (g *Generator) Next() string {
	if g.issued == nil {
		g.issued = make(map[string]struct{})
	}
	clock := g.Clock
	if clock == nil {
		clock = time.Now
	}
	for {
		id := New(clock())
		if _, dup := g.issued[id]; dup {
			continue
		}
		if g.Taken != nil && g.Taken(id) {
			continue
		}
		g.issued[id] = struct{}{}
		return id
	}
}
