// Package qc aggregates first/last character statistics of a word list.
package qc

import (
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf8"
)

// DefaultTop is the number of characters kept per ranking.
const DefaultTop = 20

// CharCount is one ranked character. It encodes as a ["char", count] pair.
type CharCount struct {
	Char  rune
	Count int
}

// MarshalJSON encodes the pair as a two-element array.
func (c CharCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{string(c.Char), c.Count})
}

// UnmarshalJSON decodes a ["char", count] pair.
func (c *CharCount) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("qc: expected [char, count], got %d elements", len(raw))
	}
	var s string
	if err := json.Unmarshal(raw[0], &s); err != nil {
		return err
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return fmt.Errorf("qc: expected a single character, got %q", s)
	}
	c.Char = r
	return json.Unmarshal(raw[1], &c.Count)
}

// Report is the quality summary of a word list.
type Report struct {
	Total     int         `json:"total"`
	FirstChar []CharCount `json:"first_char_top20"`
	LastChar  []CharCount `json:"last_char_top20"`
}

// Analyzer accumulates character statistics one word at a time.
type Analyzer struct {
	total int
	first map[rune]int
	last  map[rune]int
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		first: make(map[rune]int),
		last:  make(map[rune]int),
	}
}

// Process counts one word. Empty words are ignored.
func (a *Analyzer) Process(word string) {
	if word == "" {
		return
	}
	a.total++
	f, _ := utf8.DecodeRuneInString(word)
	l, _ := utf8.DecodeLastRuneInString(word)
	a.first[f]++
	a.last[l]++
}

// Report ranks the accumulated counts, keeping the top n of each.
func (a *Analyzer) Report(n int) Report {
	return Report{
		Total:     a.total,
		FirstChar: topN(a.first, n),
		LastChar:  topN(a.last, n),
	}
}

// Compute is the one-shot form over a whole list.
func Compute(words []string) Report {
	a := NewAnalyzer()
	for _, w := range words {
		a.Process(w)
	}
	return a.Report(DefaultTop)
}

// topN orders by count descending, code point ascending.
func topN(counts map[rune]int, n int) []CharCount {
	out := make([]CharCount, 0, len(counts))
	for r, c := range counts {
		out = append(out, CharCount{Char: r, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Char < out[j].Char
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
