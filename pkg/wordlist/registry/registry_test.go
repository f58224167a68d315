package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

const sample = `# type  name  ref_or_url
git  THUOCL  https://github.com/thunlp/THUOCL.git

git     jieba   https://github.com/fxsjy/jieba.git
url zhwiki_titles_ns0_gz https://dumps.wikimedia.org/zhwiki/latest/zhwiki-latest-all-titles-in-ns0.gz
gen hanyuguoxue_changdu3_top50   crawl hanyuguoxue pages 1-50
`

func TestParsePreservesOrder(t *testing.T) {
	reg, err := Parse(strings.NewReader(sample), "sources.txt")
	require.NoError(t, err)

	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, []string{"THUOCL", "jieba", "zhwiki_titles_ns0_gz", "hanyuguoxue_changdu3_top50"}, reg.Names())

	src, ok := reg.Lookup("jieba")
	require.True(t, ok)
	assert.Equal(t, TypeGit, src.Type)
	assert.Equal(t, "https://github.com/fxsjy/jieba.git", src.Ref)

	assert.Equal(t, 2, reg.Index("zhwiki_titles_ns0_gz"))
	assert.Equal(t, -1, reg.Index("missing"))
	assert.False(t, reg.Has("missing"))
}

func TestParseRefKeepsRemainder(t *testing.T) {
	reg, err := Parse(strings.NewReader(sample), "sources.txt")
	require.NoError(t, err)

	src, ok := reg.Lookup("hanyuguoxue_changdu3_top50")
	require.True(t, ok)
	assert.Equal(t, TypeGen, src.Type)
	assert.Equal(t, "crawl hanyuguoxue pages 1-50", src.Ref)
}

func TestParseAcceptsAnyType(t *testing.T) {
	reg, err := Parse(strings.NewReader("svn legacy svn://example.org/words\nmanual notes hand-typed\n"), "sources.txt")
	require.NoError(t, err)

	src, ok := reg.Lookup("legacy")
	require.True(t, ok)
	assert.Equal(t, Type("svn"), src.Type)
	assert.Equal(t, []string{"legacy", "notes"}, reg.Names())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		reason   string
	}{
		{"two columns", "git THUOCL\n", 1, "expected 3 columns"},
		{"one column after comment", "# header\n\njieba\n", 3, "expected 3 columns"},
		{"duplicate", "git a x\nurl b y\ngit a z\n", 3, `duplicate source name "a" (first defined on line 1)`},
		{"empty", "# nothing\n\n", 0, "no sources defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "sources.txt")
			require.Error(t, err)
			assert.ErrorIs(t, err, internalerr.ErrMalformedRegistry)

			var mre *internalerr.MalformedRegistryError
			require.True(t, errors.As(err, &mre))
			assert.Equal(t, tt.wantLine, mre.Line)
			assert.Contains(t, mre.Reason, tt.reason)
		})
	}
}

func TestSourcesReturnsCopy(t *testing.T) {
	reg, err := Parse(strings.NewReader("git a x\n"), "sources.txt")
	require.NoError(t, err)

	srcs := reg.Sources()
	srcs[0].Name = "mutated"
	assert.Equal(t, []string{"a"}, reg.Names())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Len())

	_, err = Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c d  e"}, splitColumns("a \t b   c d  e", 3))
	assert.Equal(t, []string{"a", "b"}, splitColumns("a b", 3))
	assert.Equal(t, []string{"a"}, splitColumns("a", 3))
}
