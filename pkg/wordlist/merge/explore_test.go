package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

var words = []string{"一心一", "一心二", "三心二", "两面派", "半边天"}

func TestHead(t *testing.T) {
	assert.Equal(t, []string{"一心一", "一心二"}, Head(words, 2))
	assert.Equal(t, words, Head(words, 99))
	assert.Nil(t, Head(words, 0))
}

func TestSampleDeterministic(t *testing.T) {
	a := Sample(words, 3, 42)
	b := Sample(words, 3, 42)
	assert.Equal(t, a, b)
	assert.Len(t, a, 3)
	for _, w := range a {
		assert.Contains(t, words, w)
	}

	assert.ElementsMatch(t, words, Sample(words, 10, 1))
	assert.Nil(t, Sample(words, 0, 1))
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"contains", Query{Contains: "心"}, []string{"一心一", "一心二", "三心二"}},
		{"contains with limit", Query{Contains: "心", Limit: 2}, []string{"一心一", "一心二"}},
		{"regex", Query{Regex: "二$"}, []string{"一心二", "三心二"}},
		{"no match", Query{Contains: "龙"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Search(words, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchInvalid(t *testing.T) {
	for _, q := range []Query{{}, {Contains: "a", Regex: "b"}, {Regex: "("}} {
		_, err := Search(words, q)
		assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
	}
}
