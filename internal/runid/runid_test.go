package runid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIsMonotonic(t *testing.T) {
	g := New()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	prev := g.Next()
	for i := 0; i < 100; i++ {
		id := g.Next()
		require.Greater(t, id, prev)
		prev = id
	}

	ts, err := Time(prev)
	require.NoError(t, err)
	assert.True(t, ts.Equal(fixed), "timestamp = %v, want %v", ts, fixed)
}

func TestPackageNext(t *testing.T) {
	a, b := Next(), Next()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)

	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
