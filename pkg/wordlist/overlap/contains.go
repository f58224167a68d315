package overlap

import "sort"

// ContainsReport answers whether every word of a probe list A appears in a
// candidate list B.
type ContainsReport struct {
	APath        string   `json:"a_path"`
	BPath        string   `json:"b_path"`
	ATotalLines  int      `json:"a_total_lines"`
	BTotalLines  int      `json:"b_total_lines"`
	AUnique      int      `json:"a_unique"`
	BUnique      int      `json:"b_unique"`
	Intersection int      `json:"intersection"`
	MissingCount int      `json:"missing_count"`
	ContainsAll  bool     `json:"contains_all"`
	Missing      []string `json:"-"`
}

// Contains compares two word lists. Missing holds A∖B sorted.
func Contains(a, b []string) ContainsReport {
	setA := toSet(a)
	setB := toSet(b)

	rep := ContainsReport{
		ATotalLines: len(a),
		BTotalLines: len(b),
		AUnique:     len(setA),
		BUnique:     len(setB),
	}
	for w := range setA {
		if _, ok := setB[w]; ok {
			rep.Intersection++
			continue
		}
		rep.Missing = append(rep.Missing, w)
	}
	sort.Strings(rep.Missing)
	rep.MissingCount = len(rep.Missing)
	rep.ContainsAll = rep.MissingCount == 0
	return rep
}

func toSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
