// Package wordlist ties the source registry, the set loader and the merge and
// overlap engines to one stage directory.
package wordlist

import (
	"fmt"
	"log/slog"

	"github.com/xianyudd/wordlist-pipeline/internal/logging"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/config"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/merge"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/overlap"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/registry"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

// Workspace is a registry bound to the directory its stage files live in.
type Workspace struct {
	cfg    *config.Config
	reg    *registry.Registry
	dir    string
	logger *slog.Logger
}

// Options configures a Workspace. Empty fields fall back to Config.
type Options struct {
	Config      *config.Config
	Dir         string
	SourcesFile string
	Registry    *registry.Registry
	Logger      *slog.Logger
}

// Open loads the registry (unless one is given) and returns a workspace.
func Open(opts Options) (*Workspace, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	dir := opts.Dir
	if dir == "" {
		dir = cfg.Paths.FilteredDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	reg := opts.Registry
	if reg == nil {
		path := opts.SourcesFile
		if path == "" {
			path = cfg.Paths.SourcesFile
		}
		var err error
		if reg, err = registry.Load(path); err != nil {
			return nil, err
		}
		logger.Debug("registry loaded", "path", path, "sources", reg.Len())
	}
	return &Workspace{cfg: cfg, reg: reg, dir: dir, logger: logger}, nil
}

func (w *Workspace) Config() *config.Config { return w.cfg }
func (w *Workspace) Registry() *registry.Registry { return w.reg }
func (w *Workspace) Dir() string { return w.dir }

// Sources reports the stage file of every registry source.
func (w *Workspace) Sources(count bool) ([]wordset.FileStatus, error) {
	return wordset.Status(w.dir, w.reg.Names(), count)
}

// Select resolves include/exclude and loads the active sets.
func (w *Workspace) Select(include, exclude []string) ([]string, *wordset.Sets, error) {
	active, sets, err := merge.Select(w.reg, w.dir, include, exclude)
	if err != nil {
		return nil, nil, err
	}
	w.logger.Debug("sources selected", "active", active)
	return active, sets, nil
}

// Union returns the sorted union of the selection.
func (w *Workspace) Union(include, exclude []string) ([]string, error) {
	active, sets, err := w.Select(include, exclude)
	if err != nil {
		return nil, err
	}
	return merge.Union(sets, active), nil
}

// Stats computes the merge report of the selection.
func (w *Workspace) Stats(include, exclude []string) (merge.Report, error) {
	active, sets, err := w.Select(include, exclude)
	if err != nil {
		return merge.Report{}, err
	}
	return merge.Stats(sets, active), nil
}

// Build writes the union of the selection to out.
func (w *Workspace) Build(include, exclude []string, out string, noSort bool) (*merge.Result, error) {
	return merge.Build(merge.Options{
		Registry: w.reg,
		Dir:      w.dir,
		Include:  include,
		Exclude:  exclude,
		Out:      out,
		NoSort:   noSort,
		Logger:   w.logger,
	})
}

// Plot gathers chart data for the selection. An empty mode or metric takes
// the configured default.
func (w *Workspace) Plot(include, exclude []string, opts overlap.PlotOptions) (*overlap.Plot, error) {
	if opts.Mode == "" {
		m, err := overlap.ParseMode(w.cfg.Plot.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: plot.mode: %v", internalerr.ErrInvalidConfig, err)
		}
		opts.Mode = m
	}
	if opts.Metric == "" {
		m, err := overlap.ParseMetric(w.cfg.Plot.Metric)
		if err != nil {
			return nil, fmt.Errorf("%w: plot.metric: %v", internalerr.ErrInvalidConfig, err)
		}
		opts.Metric = m
	}

	active, sets, err := w.Select(include, exclude)
	if err != nil {
		return nil, err
	}
	p, err := overlap.PlotData(sets, active, opts)
	if err != nil {
		return nil, err
	}
	w.logger.Info("plot data ready", "sources", len(active), "union", p.Union, "modes", p.Modes)
	return p, nil
}
