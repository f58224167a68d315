package merge

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/registry"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

func fixture(t *testing.T, files map[string]string) (*registry.Registry, string) {
	t.Helper()
	dir := t.TempDir()
	var reg strings.Builder
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		reg.WriteString("git " + name + " https://example.invalid/" + name + ".git\n")
		require.NoError(t, os.WriteFile(wordset.FilePath(dir, name), []byte(files[name]), 0o644))
	}
	r, err := registry.Parse(strings.NewReader(reg.String()), "sources.txt")
	require.NoError(t, err)
	return r, dir
}

func TestStatsExclusiveIdentity(t *testing.T) {
	sets := wordset.New("A", "B", "C")
	sets.Add("A", "甲乙丙", "丙丁戊")
	sets.Add("B", "丙丁戊", "己庚辛")
	sets.Add("C", "己庚辛")

	rep := Stats(sets, []string{"A", "B", "C"})

	assert.Equal(t, []SourceCount{
		{Name: "A", Count: 2, Exclusive: 1},
		{Name: "B", Count: 2, Exclusive: 0},
		{Name: "C", Count: 1, Exclusive: 0},
	}, rep.Sources)
	assert.Equal(t, 3, rep.Union)
	assert.Equal(t, 5, rep.Sum)
	assert.Equal(t, 2, rep.Duplicates)
	assert.Equal(t, []PairCount{
		{A: "A", B: "B", Count: 1},
		{A: "A", B: "C", Count: 0},
		{A: "B", B: "C", Count: 1},
	}, rep.Pairwise)
}

func TestStatsSingleSource(t *testing.T) {
	sets := wordset.New("A")
	sets.Add("A", "x", "y")

	rep := Stats(sets, []string{"A"})
	assert.Equal(t, 2, rep.Sources[0].Exclusive)
	assert.Equal(t, 0, rep.Duplicates)
	assert.Empty(t, rep.Pairwise)
}

func TestUnionSortedAndUnique(t *testing.T) {
	sets := wordset.New("A", "B")
	sets.Add("A", "戊", "甲", "乙")
	sets.Add("B", "乙", "丙", "甲")

	got := Union(sets, []string{"A", "B"})
	assert.True(t, sort.StringsAreSorted(got))
	assert.Equal(t, []string{"丙", "乙", "戊", "甲"}, got)
	assert.Equal(t, []string{"丙", "乙", "甲"}, Union(sets, []string{"B"}))
}

func TestBuild(t *testing.T) {
	reg, dir := fixture(t, map[string]string{
		"A": "甲乙丙\n丙丁戊\n",
		"B": "丙丁戊\n己庚辛\n",
	})
	out := filepath.Join(t.TempDir(), "out", "merged.txt")

	res, err := Build(Options{Registry: reg, Dir: dir, Out: out})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, res.Active)
	assert.Equal(t, 3, res.Union)
	assert.Equal(t, []SourceCount{{Name: "A", Count: 2}, {Name: "B", Count: 2}}, res.Sources)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "丙丁戊\n己庚辛\n甲乙丙\n", string(data))

	// Rebuilding yields byte-identical output.
	_, err = Build(Options{Registry: reg, Dir: dir, Out: out})
	require.NoError(t, err)
	again, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestBuildNoSortKeepsFirstSeenOrder(t *testing.T) {
	reg, dir := fixture(t, map[string]string{
		"A": "乙\n甲\n",
		"B": "甲\n丙\n",
	})
	out := filepath.Join(t.TempDir(), "merged.txt")

	_, err := Build(Options{Registry: reg, Dir: dir, Out: out, NoSort: true})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "乙\n甲\n丙\n", string(data))
}

func TestBuildEmptyUnion(t *testing.T) {
	reg, dir := fixture(t, map[string]string{"A": "\n\n"})
	out := filepath.Join(t.TempDir(), "merged.txt")

	res, err := Build(Options{Registry: reg, Dir: dir, Out: out})
	require.NoError(t, err)
	assert.Zero(t, res.Union)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestBuildFailuresWriteNothing(t *testing.T) {
	reg, dir := fixture(t, map[string]string{"A": "甲乙丙\n", "B": "丙丁戊\n"})
	require.NoError(t, os.Remove(wordset.FilePath(dir, "B")))

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{"unknown include", Options{Include: []string{"Q"}}, internalerr.ErrUnknownSource},
		{"unknown exclude", Options{Exclude: []string{"Q"}}, internalerr.ErrUnknownSource},
		{"empty selection", Options{Include: []string{"A"}, Exclude: []string{"A"}}, internalerr.ErrEmptySelection},
		{"missing file", Options{}, internalerr.ErrMissingSourceFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "merged.txt")
			tt.opts.Registry = reg
			tt.opts.Dir = dir
			tt.opts.Out = out

			_, err := Build(tt.opts)
			require.ErrorIs(t, err, tt.wantErr)
			assert.NoFileExists(t, out)
		})
	}
}

func TestBuildRequiresOutput(t *testing.T) {
	reg, dir := fixture(t, map[string]string{"A": "甲乙丙\n"})
	_, err := Build(Options{Registry: reg, Dir: dir})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	_, err = Build(Options{Dir: dir, Out: "x"})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}
