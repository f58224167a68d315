// Command stage runs the pipeline stages that turn raw sources into the
// filtered per-source word lists: fetch, extract, normalize and filter.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xianyudd/wordlist-pipeline/internal/fetch"
	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/internal/logging"
	"github.com/xianyudd/wordlist-pipeline/internal/runid"
	"github.com/xianyudd/wordlist-pipeline/internal/termui"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/config"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/ingest"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/registry"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath    string
	sourcesFile   string
	rawDir        string
	extractedDir  string
	normalizedDir string
	filteredDir   string
	strict        bool
	logLevel      string
	logFormat     string

	// fetch overrides; zero keeps the configured value
	retries     int
	concurrency int
	force       bool
	report      string

	cfg    *config.Config
	logger *slog.Logger
	runID  string
	git    fetch.Runner
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stage",
		Short:         "Run the word list pipeline stages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file (defaults are used when empty)")
	pf.StringVar(&a.sourcesFile, "sources-file", "", "source registry file (default paths.sources_file)")
	pf.StringVar(&a.rawDir, "raw-dir", "", "raw download directory (default paths.raw_dir)")
	pf.StringVar(&a.extractedDir, "extracted-dir", "", "stage 1 directory (default paths.extracted_dir)")
	pf.StringVar(&a.normalizedDir, "normalized-dir", "", "stage 2 directory (default paths.normalized_dir)")
	pf.StringVar(&a.filteredDir, "filtered-dir", "", "stage 3 directory (default paths.filtered_dir)")
	pf.BoolVar(&a.strict, "strict", false, "fail on the first source that cannot be fetched or extracted")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format: text|json")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download git and url sources into the raw directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFetch(cmd.Context())
		},
	}
	a.fetchFlags(fetchCmd)

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Run fetch, extract, normalize and filter in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.runFetch(ctx); err != nil {
				return err
			}
			if err := a.runExtract(ctx); err != nil {
				return err
			}
			if err := a.runStage(ctx, ingest.Normalizer{}, a.cfg.Paths.ExtractedDir, a.cfg.Paths.NormalizedDir); err != nil {
				return err
			}
			return a.runStage(ctx, ingest.Filter{}, a.cfg.Paths.NormalizedDir, a.cfg.Paths.FilteredDir)
		},
	}
	a.fetchFlags(allCmd)

	root.AddCommand(
		fetchCmd,
		&cobra.Command{
			Use:   "extract",
			Short: "Extract raw tokens of every source into the extracted directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runExtract(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "normalize",
			Short: "Strip whitespace, deduplicate and sort every extracted list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runStage(cmd.Context(), ingest.Normalizer{}, a.cfg.Paths.ExtractedDir, a.cfg.Paths.NormalizedDir)
			},
		},
		&cobra.Command{
			Use:   "filter",
			Short: "Keep words of exactly three Han characters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runStage(cmd.Context(), ingest.Filter{}, a.cfg.Paths.NormalizedDir, a.cfg.Paths.FilteredDir)
			},
		},
		allCmd,
	)
	return root
}

func (a *app) fetchFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&a.retries, "retries", 0, "attempts per url source (default fetch.retries)")
	cmd.Flags().IntVar(&a.concurrency, "concurrency", 0, "sources fetched in parallel (default fetch.concurrency)")
	cmd.Flags().BoolVar(&a.force, "force", false, "re-download url sources that already exist")
	cmd.Flags().StringVar(&a.report, "report", "", "write the fetch report as JSON to this path")
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Paths.SourcesFile, a.sourcesFile)
	override(&cfg.Paths.RawDir, a.rawDir)
	override(&cfg.Paths.ExtractedDir, a.extractedDir)
	override(&cfg.Paths.NormalizedDir, a.normalizedDir)
	override(&cfg.Paths.FilteredDir, a.filteredDir)
	if a.retries > 0 {
		cfg.Fetch.Retries = a.retries
	}
	if a.concurrency > 0 {
		cfg.Fetch.Concurrency = a.concurrency
	}
	a.cfg = cfg

	a.runID = runid.Next()
	a.logger, err = logging.New(a.stderr, a.logLevel, a.logFormat, a.runID)
	return err
}

func (a *app) registry() (*registry.Registry, error) {
	return registry.Load(a.cfg.Paths.SourcesFile)
}

func (a *app) runFetch(ctx context.Context) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}
	f := fetch.New(fetch.Options{
		RawDir:      a.cfg.Paths.RawDir,
		Retries:     a.cfg.Fetch.Retries,
		Concurrency: a.cfg.Fetch.Concurrency,
		Timeout:     a.cfg.Fetch.Timeout,
		UserAgent:   a.cfg.Fetch.UserAgent,
		Strict:      a.strict,
		Force:       a.force,
		Git:         a.git,
		Logger:      a.logger.With("stage", "fetch"),
		RunID:       a.runID,
	})
	rep, err := f.FetchAll(ctx, reg.Sources())
	if rep != nil {
		tbl := &termui.Table{Title: "Fetch", Headers: []string{"source", "type", "status", "bytes"}, Right: map[int]bool{3: true}}
		for _, r := range rep.Results {
			bytes := "-"
			if r.Bytes > 0 {
				bytes = termui.Count(int(r.Bytes))
			}
			tbl.AddRow(r.Name, string(r.Type), string(r.Status), bytes)
		}
		if perr := tbl.Fprint(a.stdout); perr != nil && err == nil {
			err = perr
		}
		if a.report != "" {
			data, merr := json.MarshalIndent(rep, "", "  ")
			if merr != nil {
				return merr
			}
			if werr := lineio.WriteFile(a.report, append(data, '\n')); werr != nil && err == nil {
				err = werr
			}
		}
	}
	return err
}

func (a *app) runExtract(ctx context.Context) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}
	p := ingest.NewPipeline(a.logger)
	results, err := p.ExtractAll(ctx, reg, a.cfg.Paths.RawDir, a.cfg.Paths.ExtractedDir, a.strict)
	if perr := a.printResults("extract", results); perr != nil && err == nil {
		err = perr
	}
	return err
}

func (a *app) runStage(ctx context.Context, stage ingest.Stage, in, out string) error {
	p := ingest.NewPipeline(a.logger)
	results, err := p.RunDir(ctx, stage, in, out)
	if perr := a.printResults(stage.Name(), results); perr != nil && err == nil {
		err = perr
	}
	return err
}

func (a *app) printResults(title string, results []ingest.FileResult) error {
	tbl := &termui.Table{Title: title, Headers: []string{"source", "in", "out", "note"}, Right: map[int]bool{1: true, 2: true}}
	for _, r := range results {
		in := "-"
		if r.In > 0 {
			in = termui.Count(r.In)
		}
		note := ""
		if r.Error != "" {
			note = termui.Styles.Warning.Render(r.Error)
		}
		tbl.AddRow(r.Name, in, strconv.Itoa(r.Out), note)
	}
	return tbl.Fprint(a.stdout)
}
