// Command wordlist inspects, merges and compares the filtered per-source word
// lists.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/internal/logging"
	"github.com/xianyudd/wordlist-pipeline/internal/runid"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/config"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/selector"
)

// app holds the persistent flags and what they resolve to.
type app struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	configPath  string
	dir         string
	sourcesFile string
	logLevel    string
	logFormat   string

	cfg    *config.Config
	logger *slog.Logger
	runID  string
}

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr, stdin: os.Stdin}
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wordlist",
		Short:         "Inspect and merge three-character word list sources",
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
	pf.StringVar(&a.dir, "dir", "", "stage directory holding <name>.txt (default paths.filtered_dir)")
	pf.StringVar(&a.sourcesFile, "sources-file", "", "source registry file (default paths.sources_file)")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format: text|json")

	root.AddCommand(
		a.sourcesCmd(),
		a.statsCmd(),
		a.buildCmd(),
		a.headCmd(),
		a.sampleCmd(),
		a.searchCmd(),
		a.plotCmd(),
		a.pickCmd(),
		a.qcCmd(),
		a.containsCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.runID = runid.Next()
	a.logger, err = logging.New(a.stderr, a.logLevel, a.logFormat, a.runID)
	return err
}

func (a *app) workspace() (*wordlist.Workspace, error) {
	return wordlist.Open(wordlist.Options{
		Config:      a.cfg,
		Dir:         a.dir,
		SourcesFile: a.sourcesFile,
		Logger:      a.logger,
	})
}

// selection is the --include/--exclude pair shared by several commands.
type selection struct {
	include string
	exclude string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.include, "include", "", "comma-separated source names to keep")
	cmd.Flags().StringVar(&s.exclude, "exclude", "", "comma-separated source names to drop (wins over --include)")
}

func (s *selection) lists() ([]string, []string) {
	return selector.ParseList(s.include), selector.ParseList(s.exclude)
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeJSON writes v to path, or to w when path is "-".
func writeJSON(w io.Writer, path string, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if path == "-" {
		_, err := w.Write(data)
		return err
	}
	return lineio.WriteFile(path, data)
}
