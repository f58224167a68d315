// Package overlap measures how the active sources overlap: pairwise
// similarity matrices and the exact-combination breakdown used by UpSet and
// Venn style charts.
package overlap

import (
	"fmt"
	"strings"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

// Metric names a pairwise similarity score.
type Metric string

const (
	// Jaccard is |A∩B| / |A∪B|.
	Jaccard Metric = "jaccard"
	// Overlap is |A∩B| / min(|A|,|B|).
	Overlap Metric = "overlap"
	// Containment is |A∩B| / |A|: how much of the row source the column
	// source covers.
	Containment Metric = "containment"
)

// Metrics lists the supported metrics.
var Metrics = []Metric{Jaccard, Overlap, Containment}

// ParseMetric accepts a metric name, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown overlap metric %q (want jaccard, overlap or containment)", internalerr.ErrInvalidInput, s)
}

// Symmetric reports whether Score(a,b) == Score(b,a).
func (m Metric) Symmetric() bool { return m != Containment }

// Score computes the metric from set sizes and their intersection. A zero
// denominator scores 0.
func (m Metric) Score(inter, sizeA, sizeB int) float64 {
	var denom int
	switch m {
	case Jaccard:
		denom = sizeA + sizeB - inter
	case Overlap:
		denom = min(sizeA, sizeB)
	case Containment:
		denom = sizeA
	}
	if denom <= 0 {
		return 0
	}
	return float64(inter) / float64(denom)
}

// Label is the human title used in tables.
func (m Metric) Label() string {
	switch m {
	case Jaccard:
		return "Jaccard"
	case Overlap:
		return "Overlap coefficient"
	case Containment:
		return "Containment (row covered by column)"
	}
	return string(m)
}
