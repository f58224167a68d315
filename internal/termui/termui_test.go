package termui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	assert.Equal(t, "0", Count(0))
	assert.Equal(t, "1,234,567", Count(1234567))
	assert.Equal(t, "-", Count(-1))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33.3%", Percent(1.0/3))
	assert.Equal(t, "0.0%", Percent(0))
}

func TestTableContainsCells(t *testing.T) {
	tbl := &Table{
		Title:   "Sources",
		Headers: []string{"#", "name", "count"},
		Right:   map[int]bool{0: true, 2: true},
	}
	tbl.AddRow("1", "THUOCL", Count(157000))
	tbl.AddRow("2", "jieba", Count(349046))

	var buf bytes.Buffer
	require.NoError(t, tbl.Fprint(&buf))
	out := buf.String()
	for _, want := range []string{"Sources", "name", "THUOCL", "157,000", "349,046"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestKV(t *testing.T) {
	out := KV([2]string{"union", "3"}, [2]string{"duplicates", "2"})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "union:")
	assert.True(t, strings.HasSuffix(lines[0], " 3"))
	assert.True(t, strings.HasSuffix(lines[1], " 2"))
}
