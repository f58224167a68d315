package lineio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEachTrimsAndSkipsBlank(t *testing.T) {
	input := "  甲乙丙 \n\n\t丙丁戊\r\n   \n己庚辛"
	var got []string
	err := Each(strings.NewReader(input), func(line string) error {
		got = append(got, line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"甲乙丙", "丙丁戊", "己庚辛"}, got)
}

func TestEachDropsInvalidUTF8(t *testing.T) {
	input := "甲\xff乙丙\n"
	var got []string
	require.NoError(t, Each(strings.NewReader(input), func(line string) error {
		got = append(got, line)
		return nil
	}))
	assert.Equal(t, []string{"甲乙丙"}, got)
}

func TestEachStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Each(strings.NewReader("a\nb\nc\n"), func(string) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestWriteLinesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	require.NoError(t, WriteLines(path, []string{"丙丁戊", "甲乙丙"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "丙丁戊\n甲乙丙\n", string(data))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"丙丁戊", "甲乙丙"}, lines)
}

func TestWriteLinesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, WriteLines(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteAtomicLeavesNoTempOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	boom := errors.New("boom")
	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data), "original must survive a failed write")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCountLines(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"terminated", "a\nb\n", 2},
		{"unterminated", "a\nb", 2},
		{"blank lines count", "a\n\nb\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			n, err := CountLines(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	assert.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, Exists(path))
	assert.False(t, Exists(dir), "directories are not files")
}
