// Package ingest turns raw lexical sources into stage files: extraction of
// candidate tokens, whitespace normalization and the three-character filter.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/registry"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

// Stage transforms the lines of one stage file.
type Stage interface {
	Name() string
	Apply(lines []string) []string
}

// Normalizer strips every whitespace rune inside a token, drops empty
// tokens, then deduplicates and sorts.
type Normalizer struct{}

// Name implements Stage.
func (Normalizer) Name() string { return "normalize" }

// Apply implements Stage.
func (Normalizer) Apply(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if w := NormalizeToken(l); w != "" {
			out = append(out, w)
		}
	}
	return sortUnique(out)
}

// NormalizeToken removes all Unicode whitespace from w.
func NormalizeToken(w string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, w)
}

// Predicate decides whether a word survives filtering.
type Predicate func(word string) bool

// IsThreeHan accepts exactly three runes in U+4E00..U+9FFF.
func IsThreeHan(w string) bool {
	n := 0
	for _, r := range w {
		if r < 0x4e00 || r > 0x9fff {
			return false
		}
		n++
	}
	return n == 3
}

// Filter keeps the lines accepted by Keep, deduplicated and sorted.
type Filter struct {
	Keep Predicate
}

// Name implements Stage.
func (Filter) Name() string { return "filter" }

// Apply implements Stage.
func (f Filter) Apply(lines []string) []string {
	keep := f.Keep
	if keep == nil {
		keep = IsThreeHan
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return sortUnique(out)
}

func sortUnique(words []string) []string {
	sort.Strings(words)
	out := words[:0]
	for i, w := range words {
		if i == 0 || w != words[i-1] {
			out = append(out, w)
		}
	}
	return out
}

// FileResult reports one processed stage file.
type FileResult struct {
	Name  string `json:"name"`
	In    int    `json:"in"`
	Out   int    `json:"out"`
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

// Pipeline runs stages over stage directories.
type Pipeline struct {
	logger *slog.Logger
}

// NewPipeline creates a pipeline that logs per-file counts to logger.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{logger: logger}
}

// RunDir applies stage to every *.txt file of inDir and writes the result
// under the same name in outDir. Files are processed in lexical order.
func (p *Pipeline) RunDir(ctx context.Context, stage Stage, inDir, outDir string) ([]FileResult, error) {
	files, err := filepath.Glob(filepath.Join(inDir, "*"+wordset.FileExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	results := make([]FileResult, 0, len(files))
	for _, in := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		lines, err := lineio.ReadLines(in)
		if err != nil {
			return results, err
		}
		words := stage.Apply(lines)
		out := filepath.Join(outDir, filepath.Base(in))
		if err := lineio.WriteLines(out, words); err != nil {
			return results, err
		}
		res := FileResult{
			Name: strings.TrimSuffix(filepath.Base(in), wordset.FileExt),
			In:   len(lines),
			Out:  len(words),
			Path: out,
		}
		p.logger.Info("stage file written", "stage", stage.Name(), "source", res.Name, "in", res.In, "out", res.Out)
		results = append(results, res)
	}
	return results, nil
}

// ExtractAll extracts every registry source from rawDir into
// outDir/<name>.txt. A source whose raw files cannot be found is recorded
// and skipped unless strict is set.
func (p *Pipeline) ExtractAll(ctx context.Context, reg *registry.Registry, rawDir, outDir string, strict bool) ([]FileResult, error) {
	results := make([]FileResult, 0, reg.Len())
	for _, src := range reg.Sources() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		out := wordset.FilePath(outDir, src.Name)
		words, err := ExtractorFor(src.Name).Extract(rawDir, src.Name)
		if err != nil {
			if strict {
				return results, fmt.Errorf("extract %s: %w", src.Name, err)
			}
			p.logger.Warn("extract skipped", "source", src.Name, "error", err)
			results = append(results, FileResult{Name: src.Name, Path: out, Error: err.Error()})
			continue
		}
		if err := lineio.WriteLines(out, words); err != nil {
			return results, err
		}
		p.logger.Info("stage file written", "stage", "extract", "source", src.Name, "out", len(words))
		results = append(results, FileResult{Name: src.Name, Out: len(words), Path: out})
	}
	return results, nil
}
