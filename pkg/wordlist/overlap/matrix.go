package overlap

import (
	"encoding/json"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

// Cell is one off-diagonal entry of a Matrix.
type Cell struct {
	Row          string  `json:"row"`
	Col          string  `json:"col"`
	Intersection int     `json:"intersection"`
	Value        float64 `json:"value"`
}

// Matrix holds the pairwise scores of the active sources. The diagonal is
// not part of the matrix.
type Matrix struct {
	metric Metric
	names  []string
	index  map[string]int
	sizes  []int
	inter  [][]int
	values [][]float64
}

// Pairwise scores every ordered pair of distinct active sources.
func Pairwise(sets *wordset.Sets, active []string, metric Metric) *Matrix {
	n := len(active)
	m := &Matrix{
		metric: metric,
		names:  append([]string(nil), active...),
		index:  make(map[string]int, n),
		sizes:  make([]int, n),
		inter:  make([][]int, n),
		values: make([][]float64, n),
	}
	for i, name := range active {
		m.index[name] = i
		m.sizes[i] = sets.Len(name)
		m.inter[i] = make([]int, n)
		m.values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := sets.IntersectionLen(active[i], active[j])
			m.inter[i][j], m.inter[j][i] = c, c
			m.values[i][j] = metric.Score(c, m.sizes[i], m.sizes[j])
			m.values[j][i] = metric.Score(c, m.sizes[j], m.sizes[i])
		}
	}
	return m
}

// Metric returns the metric the matrix was computed with.
func (m *Matrix) Metric() Metric { return m.metric }

// Names returns the row/column order.
func (m *Matrix) Names() []string { return append([]string(nil), m.names...) }

// Size returns |name|, or 0 for names outside the matrix.
func (m *Matrix) Size(name string) int {
	i, ok := m.index[name]
	if !ok {
		return 0
	}
	return m.sizes[i]
}

// At returns the score of (row, col). ok is false on the diagonal and for
// names outside the matrix.
func (m *Matrix) At(row, col string) (v float64, ok bool) {
	i, ok1 := m.index[row]
	j, ok2 := m.index[col]
	if !ok1 || !ok2 || i == j {
		return 0, false
	}
	return m.values[i][j], true
}

// Intersection returns |row ∩ col|.
func (m *Matrix) Intersection(row, col string) int {
	i, ok1 := m.index[row]
	j, ok2 := m.index[col]
	if !ok1 || !ok2 || i == j {
		return 0
	}
	return m.inter[i][j]
}

// Cells lists the off-diagonal entries in row-major order.
func (m *Matrix) Cells() []Cell {
	n := len(m.names)
	out := make([]Cell, 0, n*(n-1)+1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			out = append(out, Cell{
				Row:          m.names[i],
				Col:          m.names[j],
				Intersection: m.inter[i][j],
				Value:        m.values[i][j],
			})
		}
	}
	return out
}

// Max returns the largest off-diagonal score, 0 when there is none.
func (m *Matrix) Max() float64 {
	var best float64
	for i := range m.values {
		for j, v := range m.values[i] {
			if i != j && v > best {
				best = v
			}
		}
	}
	return best
}

type matrixJSON struct {
	Metric Metric   `json:"metric"`
	Names  []string `json:"names"`
	Sizes  []int    `json:"sizes"`
	Cells  []Cell   `json:"cells"`
	Max    float64  `json:"max"`
}

// MarshalJSON encodes the matrix as its off-diagonal cells.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(matrixJSON{
		Metric: m.metric,
		Names:  m.names,
		Sizes:  m.sizes,
		Cells:  m.Cells(),
		Max:    m.Max(),
	})
}
