// Package runid issues sortable identifiers for pipeline runs. IDs appear in
// logs and reports only, never in word list output.
package runid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator issues monotonically increasing ULIDs.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a generator backed by crypto/rand.
func New() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Next returns a fresh ID.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

// Time extracts the timestamp embedded in id.
func Time(id string) (time.Time, error) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

// Next returns an ID from the process-wide generator.
func Next() string {
	defaultOnce.Do(func() { defaultGen = New() })
	return defaultGen.Next()
}
