// Command crawl-hanyuguoxue collects three-character dictionary titles from
// hanyuguoxue.com into a raw source file plus a JSON report.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xianyudd/wordlist-pipeline/internal/crawl"
	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/internal/logging"
	"github.com/xianyudd/wordlist-pipeline/internal/runid"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/config"
)

// defaultName is the source name the crawl output is registered under.
const defaultName = "hanyuguoxue_changdu3_top50"

type options struct {
	configPath string
	baseURL    string
	start      int
	end        int
	out        string
	report     string
	delayMin   time.Duration
	delayMax   time.Duration
	retries    int
	logLevel   string
	logFormat  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCmd(stdout, stderr io.Writer) *cobra.Command {
	var o options
	defaults := config.DefaultConfig().Crawl

	cmd := &cobra.Command{
		Use:           "crawl-hanyuguoxue",
		Short:         "Crawl the paginated three-character word index of hanyuguoxue.com",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return err
			}
			o.merge(cmd, cfg)
			return run(cmd.Context(), o, cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "YAML config file (defaults are used when empty)")
	f.StringVar(&o.baseURL, "base-url", crawl.DefaultBaseURL, "site to crawl")
	f.IntVar(&o.start, "start", defaults.Start, "first page")
	f.IntVar(&o.end, "end", defaults.End, "last page (inclusive)")
	f.StringVar(&o.out, "out", "", "titles output (default <raw_dir>/"+defaultName+".txt)")
	f.StringVar(&o.report, "report", "", "JSON report (default next to --out as .report.json)")
	f.DurationVar(&o.delayMin, "delay-min", defaults.DelayMin, "minimum pause between pages")
	f.DurationVar(&o.delayMax, "delay-max", defaults.DelayMax, "maximum pause between pages")
	f.IntVar(&o.retries, "retries", defaults.Retries, "attempts per page")
	f.StringVar(&o.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	f.StringVar(&o.logFormat, "log-format", "text", "log format: text|json")
	return cmd
}

// merge fills flags the user did not set from the config file.
func (o *options) merge(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if !changed("start") {
		o.start = cfg.Crawl.Start
	}
	if !changed("end") {
		o.end = cfg.Crawl.End
	}
	if !changed("delay-min") {
		o.delayMin = cfg.Crawl.DelayMin
	}
	if !changed("delay-max") {
		o.delayMax = cfg.Crawl.DelayMax
	}
	if !changed("retries") {
		o.retries = cfg.Crawl.Retries
	}
	if o.out == "" {
		o.out = filepath.Join(cfg.Paths.RawDir, defaultName+".txt")
	}
	if o.report == "" {
		o.report = strings.TrimSuffix(o.out, filepath.Ext(o.out)) + ".report.json"
	}
}

func (o options) validate() error {
	if o.start < 1 || o.end < o.start {
		return fmt.Errorf("invalid page range %d..%d", o.start, o.end)
	}
	if o.delayMin < 0 || o.delayMax < o.delayMin {
		return fmt.Errorf("invalid delays %s..%s", o.delayMin, o.delayMax)
	}
	return nil
}

func run(ctx context.Context, o options, cfg *config.Config, stdout, stderr io.Writer) error {
	if err := o.validate(); err != nil {
		return err
	}
	id := runid.Next()
	logger, err := logging.New(stderr, o.logLevel, o.logFormat, id)
	if err != nil {
		return err
	}

	c := crawl.New(crawl.Options{
		BaseURL:   o.baseURL,
		Start:     o.start,
		End:       o.end,
		DelayMin:  o.delayMin,
		DelayMax:  o.delayMax,
		Retries:   o.retries,
		UserAgent: cfg.Fetch.UserAgent,
		Logger:    logger,
		RunID:     id,
	})
	logger.Info("crawl started", "base", o.baseURL, "start", o.start, "end", o.end)

	titles, rep, err := c.Run(ctx)
	if err != nil {
		return err
	}
	if err := lineio.WriteLines(o.out, titles); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if err := lineio.WriteFile(o.report, append(data, '\n')); err != nil {
		return err
	}

	logger.Info("crawl finished", "titles", rep.TotalUniqueTitles, "failed_pages", len(rep.Failed))
	fmt.Fprintf(stdout, "[crawl] %d unique titles -> %s\n[crawl] report -> %s\n", rep.TotalUniqueTitles, o.out, o.report)
	return nil
}
