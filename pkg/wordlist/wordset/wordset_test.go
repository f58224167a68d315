package wordset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

func writeStage(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(FilePath(dir, name), []byte(content), 0o644))
	}
}

func TestLoadDeduplicates(t *testing.T) {
	dir := t.TempDir()
	writeStage(t, dir, map[string]string{
		"A": "甲乙丙\n丙丁戊\n甲乙丙\n\n",
		"B": "丙丁戊\n己庚辛\n",
	})

	sets, err := Load([]string{"A", "B"}, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, sets.Names())
	assert.Equal(t, 2, sets.Len("A"))
	assert.Equal(t, 2, sets.Len("B"))
	assert.Equal(t, 3, sets.Dictionary().Len())
	assert.Equal(t, []string{"丙丁戊", "甲乙丙"}, sets.Words("A"))
	assert.True(t, sets.Contains("B", "己庚辛"))
	assert.False(t, sets.Contains("A", "己庚辛"))
	assert.Equal(t, 1, sets.IntersectionLen("A", "B"))
}

func TestLoadMissingFileShortCircuits(t *testing.T) {
	dir := t.TempDir()
	writeStage(t, dir, map[string]string{"A": "甲乙丙\n"})

	sets, err := Load([]string{"A", "B"}, dir)
	assert.Nil(t, sets)
	require.Error(t, err)
	assert.ErrorIs(t, err, internalerr.ErrMissingSourceFile)

	var missing *internalerr.MissingSourceFileError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "B", missing.Name)
	assert.Equal(t, filepath.Join(dir, "B.txt"), missing.Path)
}

func TestUnion(t *testing.T) {
	sets := New("A", "B", "C")
	sets.Add("A", "x", "y")
	sets.Add("B", "y", "z")
	sets.Add("C", "w")

	u := sets.Union([]string{"A", "B"})
	assert.Equal(t, []string{"x", "y", "z"}, sets.Resolve(u, true))
	assert.EqualValues(t, 4, sets.Universe().GetCardinality())
	assert.True(t, sets.Union(nil).IsEmpty())
}

func TestBitmapIsACopy(t *testing.T) {
	sets := New("A")
	sets.Add("A", "x")

	bm := sets.Bitmap("A")
	bm.Add(99)
	assert.Equal(t, 1, sets.Len("A"))
	assert.Nil(t, sets.Bitmap("nope"))
}

func TestMasks(t *testing.T) {
	sets := New("A", "B")
	sets.Add("A", "x", "y")
	sets.Add("B", "y", "z")

	masks, err := sets.Masks([]string{"A", "B"})
	require.NoError(t, err)

	byWord := map[string]uint32{}
	for id, m := range masks {
		byWord[sets.Dictionary().Word(uint32(id))] = m
	}
	assert.Equal(t, map[string]uint32{"x": 0b01, "y": 0b11, "z": 0b10}, byWord)

	masks, err = sets.Masks([]string{"B"})
	require.NoError(t, err)
	id, _ := sets.Dictionary().ID("x")
	assert.Zero(t, masks[id], "words outside the selection carry no bits")

	names := make([]string, 33)
	_, err = sets.Masks(names)
	assert.ErrorIs(t, err, internalerr.ErrTooManySources)
}

func TestUnknownNames(t *testing.T) {
	sets := New("A")
	assert.Zero(t, sets.Len("Z"))
	assert.False(t, sets.Contains("Z", "x"))
	assert.Nil(t, sets.Words("Z"))
	assert.Zero(t, sets.IntersectionLen("A", "Z"))
	assert.Panics(t, func() { sets.Add("Z", "x") })
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	writeStage(t, dir, map[string]string{"A": "a\nb\nc\n"})

	st, err := Status(dir, []string{"A", "B"}, true)
	require.NoError(t, err)
	require.Len(t, st, 2)

	assert.True(t, st[0].Exists)
	assert.Equal(t, 3, st[0].Lines)
	assert.False(t, st[1].Exists)
	assert.Equal(t, -1, st[1].Lines)

	st, err = Status(dir, []string{"A"}, false)
	require.NoError(t, err)
	assert.Equal(t, -1, st[0].Lines)
}
