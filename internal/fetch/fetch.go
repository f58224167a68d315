// Package fetch downloads raw sources named by the registry into the raw
// stage directory.
package fetch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/registry"
)

// Status is the outcome of one source.
type Status string

const (
	StatusFetched Status = "fetched"
	StatusExists  Status = "exists"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Runner executes an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// Options configures a Fetcher.
type Options struct {
	RawDir      string
	Retries     int
	Concurrency int
	Timeout     time.Duration
	UserAgent   string
	// Strict makes the first failing source abort the whole fetch.
	Strict bool
	// Force re-downloads url sources that already exist.
	Force  bool
	Client *http.Client
	Git    Runner
	Logger *slog.Logger
	RunID  string
}

// Result describes one source.
type Result struct {
	Name   string        `json:"name"`
	Type   registry.Type `json:"type"`
	Status Status        `json:"status"`
	Path   string        `json:"path,omitempty"`
	Bytes  int64         `json:"bytes,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// Report summarizes a fetch run.
type Report struct {
	RunID   string   `json:"run_id,omitempty"`
	Results []Result `json:"results"`
	Failed  int      `json:"failed"`
}

// Fetcher downloads sources concurrently.
type Fetcher struct {
	opts   Options
	client *http.Client
	git    Runner
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a fetcher, filling unset options with defaults.
func New(opts Options) *Fetcher {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	git := opts.Git
	if git == nil {
		git = ExecRunner{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{opts: opts, client: client, git: git, logger: logger, sleep: sleepCtx}
}

// FetchAll fetches every source. Results keep the order of sources.
func (f *Fetcher) FetchAll(ctx context.Context, sources []registry.Source) (*Report, error) {
	rep := &Report{RunID: f.opts.RunID, Results: make([]Result, len(sources))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Concurrency)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			res, err := f.Fetch(gctx, src)
			rep.Results[i] = res
			if err != nil {
				f.logger.Error("fetch failed", "source", src.Name, "type", src.Type, "error", err)
				if f.opts.Strict {
					return fmt.Errorf("fetch %s: %w", src.Name, err)
				}
				return nil
			}
			f.logger.Info("fetch done", "source", src.Name, "status", res.Status, "bytes", res.Bytes)
			return nil
		})
	}
	err := g.Wait()
	for _, r := range rep.Results {
		if r.Status == StatusFailed {
			rep.Failed++
		}
	}
	return rep, err
}

// Fetch downloads one source. The returned Result is filled in on error too.
func (f *Fetcher) Fetch(ctx context.Context, src registry.Source) (Result, error) {
	res := Result{Name: src.Name, Type: src.Type, Path: filepath.Join(f.opts.RawDir, src.Name)}
	var err error
	switch src.Type {
	case registry.TypeGit:
		err = f.fetchGit(ctx, src, &res)
	case registry.TypeURL:
		err = f.fetchURL(ctx, src, &res)
	default:
		res.Status = StatusSkipped
		res.Path = ""
		return res, nil
	}
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
	}
	return res, err
}

func (f *Fetcher) fetchGit(ctx context.Context, src registry.Source, res *Result) error {
	if info, err := os.Stat(res.Path); err == nil && info.IsDir() {
		res.Status = StatusExists
		return nil
	}
	if err := os.MkdirAll(f.opts.RawDir, 0o755); err != nil {
		return err
	}
	if _, err := f.git.Run(ctx, "git", "clone", "--depth", "1", src.Ref, res.Path); err != nil {
		return err
	}
	res.Status = StatusFetched
	return nil
}

func (f *Fetcher) fetchURL(ctx context.Context, src registry.Source, res *Result) error {
	if !f.opts.Force && lineio.Exists(res.Path) {
		res.Status = StatusExists
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= f.opts.Retries; attempt++ {
		n, err := f.download(ctx, src.Ref, res.Path)
		if err == nil {
			res.Status = StatusFetched
			res.Bytes = n
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.logger.Warn("download attempt failed", "source", src.Name, "attempt", attempt, "error", err)
		if attempt < f.opts.Retries {
			if err := f.sleep(ctx, Backoff(attempt)); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("after %d attempts: %w", f.opts.Retries, lastErr)
}

var gzipMagic = []byte{0x1f, 0x8b}

// download streams url into path, transparently decompressing gzip bodies.
func (f *Fetcher) download(ctx context.Context, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body := bufio.NewReader(resp.Body)
	var src io.Reader = body
	head, err := body.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	if isGzip(head) {
		zr, err := gzip.NewReader(body)
		if err != nil {
			return 0, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var n int64
	err = lineio.WriteAtomic(path, func(w io.Writer) error {
		var err error
		n, err = io.Copy(w, src)
		return err
	})
	return n, err
}

// isGzip reports whether the body is gzip data. A .gz URL whose body is
// already plain (decoded in transit) is written as-is.
func isGzip(head []byte) bool {
	return len(head) == 2 && head[0] == gzipMagic[0] && head[1] == gzipMagic[1]
}

// Backoff is the delay after the given failed attempt: 500ms doubling,
// capped at 10s.
func Backoff(attempt int) time.Duration {
	d := 500 * time.Millisecond
	for i := 1; i < attempt && d < 10*time.Second; i++ {
		d *= 2
	}
	return min(d, 10*time.Second)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
