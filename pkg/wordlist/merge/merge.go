// Package merge builds the union word list of the active sources and the
// per-source statistics that explain it.
package merge

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/registry"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/selector"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

// Union returns the sorted, duplicate-free union of the active sources.
func Union(sets *wordset.Sets, active []string) []string {
	return sets.Resolve(sets.Union(active), true)
}

// SourceCount is one source's contribution to a selection.
type SourceCount struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Exclusive int    `json:"exclusive"`
}

// PairCount is the intersection size of two sources.
type PairCount struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// Report summarizes a selection.
type Report struct {
	Sources    []SourceCount `json:"sources"`
	Union      int           `json:"union"`
	Sum        int           `json:"sum"`
	Duplicates int           `json:"duplicates"`
	Pairwise   []PairCount   `json:"pairwise"`
}

// Stats computes the report for active, keeping its order. Pairs are
// emitted for i<j in that order.
func Stats(sets *wordset.Sets, active []string) Report {
	rep := Report{
		Sources:  make([]SourceCount, 0, len(active)),
		Pairwise: make([]PairCount, 0, len(active)*(len(active)-1)/2+1),
	}

	for i, name := range active {
		others := make([]string, 0, len(active)-1)
		others = append(others, active[:i]...)
		others = append(others, active[i+1:]...)

		own := sets.Bitmap(name)
		if own == nil {
			own = roaring.New()
		}
		exclusive := roaring.AndNot(own, sets.Union(others))

		n := int(own.GetCardinality())
		rep.Sources = append(rep.Sources, SourceCount{
			Name:      name,
			Count:     n,
			Exclusive: int(exclusive.GetCardinality()),
		})
		rep.Sum += n
	}

	rep.Union = int(sets.Union(active).GetCardinality())
	rep.Duplicates = rep.Sum - rep.Union

	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			rep.Pairwise = append(rep.Pairwise, PairCount{
				A:     active[i],
				B:     active[j],
				Count: sets.IntersectionLen(active[i], active[j]),
			})
		}
	}
	return rep
}

// Options configures a Build.
type Options struct {
	Registry *registry.Registry
	Dir      string
	Include  []string
	Exclude  []string
	Out      string
	// NoSort writes words in first-seen order (active order, then file
	// order) instead of sorting them.
	NoSort bool
	Logger *slog.Logger
}

// Result describes a finished build.
type Result struct {
	Active  []string      `json:"active"`
	Sources []SourceCount `json:"sources"`
	Union   int           `json:"union"`
	Out     string        `json:"out"`
}

// Select resolves the active names against the registry and loads their
// sets. Nothing is read when the selection is invalid.
func Select(reg *registry.Registry, dir string, include, exclude []string) ([]string, *wordset.Sets, error) {
	if reg == nil {
		return nil, nil, fmt.Errorf("%w: nil registry", internalerr.ErrInvalidInput)
	}
	active, err := selector.Resolve(reg.Names(), include, exclude)
	if err != nil {
		return nil, nil, err
	}
	sets, err := wordset.Load(active, dir)
	if err != nil {
		return nil, nil, err
	}
	return active, sets, nil
}

// Build writes the union of the selected sources to opts.Out, one word per
// line. The file is replaced atomically and is left untouched on error.
func Build(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if strings.TrimSpace(opts.Out) == "" {
		return nil, fmt.Errorf("%w: output path required", internalerr.ErrInvalidInput)
	}

	active, sets, err := Select(opts.Registry, opts.Dir, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	words := sets.Resolve(sets.Union(active), !opts.NoSort)
	if err := lineio.WriteLines(opts.Out, words); err != nil {
		return nil, err
	}

	res := &Result{Active: active, Union: len(words), Out: opts.Out}
	for _, name := range active {
		n := sets.Len(name)
		res.Sources = append(res.Sources, SourceCount{Name: name, Count: n})
		logger.Debug("source loaded", "source", name, "count", n)
	}
	logger.Info("build complete", "sources", len(active), "union", res.Union, "out", opts.Out)
	return res, nil
}
