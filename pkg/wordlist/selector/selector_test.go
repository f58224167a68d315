package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

var all = []string{"X", "Y", "Z"}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{"neither", nil, nil, []string{"X", "Y", "Z"}},
		{"include only", []string{"Z", "X"}, nil, []string{"X", "Z"}},
		{"exclude only", nil, []string{"Y"}, []string{"X", "Z"}},
		{"exclude wins over include", []string{"X", "Y"}, []string{"Y"}, []string{"X"}},
		{"exclude of name dropped by include", []string{"X"}, []string{"Z"}, []string{"X"}},
		{"duplicates in include", []string{"Y", "Y"}, nil, []string{"Y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(all, tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		flag    string
		names   []string
	}{
		{"unknown include", []string{"Q"}, nil, "include", []string{"Q"}},
		{"unknown exclude", nil, []string{"P", "X", "A", "P"}, "exclude", []string{"A", "P"}},
		{"include reported first", []string{"Q"}, []string{"R"}, "include", []string{"Q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(all, tt.include, tt.exclude)
			assert.Nil(t, got)
			require.ErrorIs(t, err, internalerr.ErrUnknownSource)

			var unknown *internalerr.UnknownSourceError
			require.True(t, errors.As(err, &unknown))
			assert.Equal(t, tt.flag, unknown.Flag)
			assert.Equal(t, tt.names, unknown.Names)
		})
	}
}

func TestResolveEmpty(t *testing.T) {
	_, err := Resolve(all, []string{"X"}, []string{"X"})
	assert.ErrorIs(t, err, internalerr.ErrEmptySelection)

	_, err = Resolve(nil, nil, nil)
	assert.ErrorIs(t, err, internalerr.ErrEmptySelection)
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(""))
	assert.Equal(t, []string{"a", "b"}, ParseList(" a, ,b ,"))
	assert.Equal(t, []string{"THUOCL"}, ParseList("THUOCL"))
}
