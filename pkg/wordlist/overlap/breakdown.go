package overlap

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

const (
	// MaxExhaustive is the largest source count for which every one of the
	// 2^k-1 combinations may be listed.
	MaxExhaustive = 20
	// MaxSources bounds the per-word membership mask.
	MaxSources = 32
	// DefaultMaxIntersections is the default number of shown combinations.
	DefaultMaxIntersections = 20
)

// Combination is the set of words that belong to exactly the sources whose
// bits are set in Mask (bit i = active[i]).
type Combination struct {
	Mask    uint32   `json:"mask"`
	Sources []string `json:"sources"`
	Degree  int      `json:"degree"`
	Count   int      `json:"count"`
}

// Degree summarizes the combinations that span the same number of sources.
type Degree struct {
	Degree       int `json:"degree"`
	Combinations int `json:"combinations"`
	Words        int `json:"words"`
}

// SourceTotal is a source's size recovered from the breakdown.
type SourceTotal struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Breakdown partitions the union of the active sources by exact membership.
type Breakdown struct {
	Names []string `json:"names"`
	// Total is the union size; it equals the sum of all combination counts.
	Total int `json:"total"`
	// Combinations holds every occurring non-empty combination ordered by
	// count descending, then mask ascending.
	Combinations []Combination `json:"-"`
	// Shown is the head of Combinations kept for display.
	Shown        []Combination `json:"shown"`
	TotalCombos  int           `json:"total_combinations"`
	DegreeCounts []Degree      `json:"degrees"`
	SourceTotals []SourceTotal `json:"source_totals"`
}

// Compute builds the breakdown of active. maxShown caps Shown; 0 or less
// shows every combination, which is only permitted for up to MaxExhaustive
// sources.
func Compute(sets *wordset.Sets, active []string, maxShown int) (*Breakdown, error) {
	k := len(active)
	if k > MaxSources {
		return nil, fmt.Errorf("%w: %d sources, at most %d supported", internalerr.ErrTooManySources, k, MaxSources)
	}
	if k > MaxExhaustive && maxShown <= 0 {
		return nil, fmt.Errorf("%w: %d sources require a positive intersection limit", internalerr.ErrTooManySources, k)
	}

	masks, err := sets.Masks(active)
	if err != nil {
		return nil, err
	}
	counts := make(map[uint32]int)
	for _, m := range masks {
		if m != 0 {
			counts[m]++
		}
	}

	b := &Breakdown{Names: append([]string(nil), active...)}
	b.Combinations = make([]Combination, 0, len(counts))
	for mask, c := range counts {
		b.Combinations = append(b.Combinations, b.combination(mask, c))
		b.Total += c
	}
	sort.Slice(b.Combinations, func(i, j int) bool {
		ci, cj := b.Combinations[i], b.Combinations[j]
		if ci.Count != cj.Count {
			return ci.Count > cj.Count
		}
		return ci.Mask < cj.Mask
	})
	b.TotalCombos = len(b.Combinations)

	b.Shown = b.Combinations
	if maxShown > 0 && len(b.Shown) > maxShown {
		b.Shown = b.Shown[:maxShown]
	}

	b.DegreeCounts = make([]Degree, k)
	for d := range b.DegreeCounts {
		b.DegreeCounts[d].Degree = d + 1
	}
	b.SourceTotals = make([]SourceTotal, k)
	for i, name := range active {
		b.SourceTotals[i].Name = name
	}
	for _, c := range b.Combinations {
		b.DegreeCounts[c.Degree-1].Combinations++
		b.DegreeCounts[c.Degree-1].Words += c.Count
		for i := 0; i < k; i++ {
			if c.Mask&(1<<uint(i)) != 0 {
				b.SourceTotals[i].Count += c.Count
			}
		}
	}
	return b, nil
}

// Count returns the number of words in exactly the combination mask.
func (b *Breakdown) Count(mask uint32) int {
	for _, c := range b.Combinations {
		if c.Mask == mask {
			return c.Count
		}
	}
	return 0
}

// Regions lists all 2^k-1 non-empty combinations in mask order, including
// those with no words. Venn diagrams need every region.
func (b *Breakdown) Regions() ([]Combination, error) {
	k := len(b.Names)
	if k > MaxExhaustive {
		return nil, fmt.Errorf("%w: cannot enumerate %d sources", internalerr.ErrTooManySources, k)
	}
	byMask := make(map[uint32]int, len(b.Combinations))
	for _, c := range b.Combinations {
		byMask[c.Mask] = c.Count
	}
	out := make([]Combination, 0, (1<<uint(k))-1)
	for mask := uint32(1); mask < 1<<uint(k); mask++ {
		out = append(out, b.combination(mask, byMask[mask]))
	}
	return out, nil
}

func (b *Breakdown) combination(mask uint32, count int) Combination {
	c := Combination{Mask: mask, Degree: bits.OnesCount32(mask), Count: count}
	c.Sources = make([]string, 0, c.Degree)
	for i, name := range b.Names {
		if mask&(1<<uint(i)) != 0 {
			c.Sources = append(c.Sources, name)
		}
	}
	return c
}
