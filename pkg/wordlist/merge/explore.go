package merge

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

// Head returns the n lexicographically smallest words of a sorted union.
func Head(words []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(words) {
		n = len(words)
	}
	out := make([]string, n)
	copy(out, words[:n])
	return out
}

// Sample draws up to n words by reservoir sampling. The result depends only
// on the input order and seed.
func Sample(words []string, n int, seed int64) []string {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	reservoir := make([]string, 0, min(n, len(words)))
	for i, w := range words {
		if i < n {
			reservoir = append(reservoir, w)
			continue
		}
		if j := rng.Intn(i + 1); j < n {
			reservoir[j] = w
		}
	}
	return reservoir
}

// Query selects words by substring or regular expression. Exactly one of
// Contains and Regex must be set.
type Query struct {
	Contains string
	Regex    string
	Limit    int // 0 or less means unlimited
}

// Search returns the words matching q in input order.
func Search(words []string, q Query) ([]string, error) {
	var match func(string) bool
	switch {
	case q.Contains != "" && q.Regex != "":
		return nil, fmt.Errorf("%w: contains and regex are mutually exclusive", internalerr.ErrInvalidInput)
	case q.Contains != "":
		match = func(w string) bool { return strings.Contains(w, q.Contains) }
	case q.Regex != "":
		re, err := regexp.Compile(q.Regex)
		if err != nil {
			return nil, fmt.Errorf("%w: regex: %v", internalerr.ErrInvalidInput, err)
		}
		match = re.MatchString
	default:
		return nil, fmt.Errorf("%w: contains or regex required", internalerr.ErrInvalidInput)
	}

	var out []string
	for _, w := range words {
		if !match(w) {
			continue
		}
		out = append(out, w)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}
