package overlap

import (
	"fmt"
	"strings"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

// Mode selects which chart data a plot carries.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeVenn    Mode = "venn"
	ModeUpset   Mode = "upset"
	ModeOverlap Mode = "overlap"
	ModeAll     Mode = "all"
)

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeAuto, ModeVenn, ModeUpset, ModeOverlap, ModeAll:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown plot mode %q (want auto, venn, upset, overlap or all)", internalerr.ErrInvalidInput, s)
}

// Expand resolves auto and all into the concrete charts for n sources.
func (m Mode) Expand(n int) ([]Mode, error) {
	switch m {
	case ModeAuto:
		if n <= 3 {
			return []Mode{ModeVenn}, nil
		}
		return []Mode{ModeOverlap}, nil
	case ModeAll:
		if n <= 3 {
			return []Mode{ModeVenn, ModeUpset, ModeOverlap}, nil
		}
		return []Mode{ModeUpset, ModeOverlap}, nil
	case ModeVenn:
		if n != 2 && n != 3 {
			return nil, fmt.Errorf("%w: venn supports 2 or 3 sources, got %d", internalerr.ErrInvalidInput, n)
		}
		return []Mode{ModeVenn}, nil
	case ModeUpset, ModeOverlap:
		return []Mode{m}, nil
	}
	return nil, fmt.Errorf("%w: unknown plot mode %q", internalerr.ErrInvalidInput, string(m))
}

// PlotOptions configures PlotData.
type PlotOptions struct {
	Mode             Mode
	Metric           Metric
	MaxIntersections int
}

// Plot is the chart data of one selection.
type Plot struct {
	Modes   []Mode        `json:"modes"`
	Sources []SourceTotal `json:"sources"`
	Union   int           `json:"union"`
	Venn    []Combination `json:"venn,omitempty"`
	Upset   *Breakdown    `json:"upset,omitempty"`
	Overlap *Matrix       `json:"overlap,omitempty"`
}

// PlotData gathers what the requested charts need. At least two sources are
// required.
func PlotData(sets *wordset.Sets, active []string, opts PlotOptions) (*Plot, error) {
	if len(active) < 2 {
		return nil, fmt.Errorf("%w: got %d", internalerr.ErrNeedTwoSources, len(active))
	}
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	if opts.Metric == "" {
		opts.Metric = Jaccard
	}
	modes, err := opts.Mode.Expand(len(active))
	if err != nil {
		return nil, err
	}

	bd, err := Compute(sets, active, opts.MaxIntersections)
	if err != nil {
		return nil, err
	}

	p := &Plot{Modes: modes, Sources: bd.SourceTotals, Union: bd.Total}
	for _, m := range modes {
		switch m {
		case ModeVenn:
			if p.Venn, err = bd.Regions(); err != nil {
				return nil, err
			}
		case ModeUpset:
			p.Upset = bd
		case ModeOverlap:
			p.Overlap = Pairwise(sets, active, opts.Metric)
		}
	}
	return p, nil
}
