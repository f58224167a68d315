// Package crawl collects three-character dictionary titles from the paginated
// hanyuguoxue.com length index.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the crawled site.
	DefaultBaseURL = "https://www.hanyuguoxue.com"
	// PageTemplate is the path of one index page.
	PageTemplate = "/cidian/changdu-3-p%d"

	detailLinkText = "查看详情"
	maxBackoff     = 2 * time.Second
	baseBackoff    = 300 * time.Millisecond
	backoffJitter  = 200 * time.Millisecond
)

var entryHref = regexp.MustCompile(`(?i)^/cidian/ci-[0-9a-f]+`)

// Options configures a Crawler.
type Options struct {
	BaseURL   string
	Start     int
	End       int
	DelayMin  time.Duration
	DelayMax  time.Duration
	Retries   int
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
	Logger    *slog.Logger
	RunID     string
	Seed      int64
}

// PageResult is the outcome of one page.
type PageResult struct {
	Page  int    `json:"page"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// Range is the inclusive page range crawled.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Report summarizes a crawl.
type Report struct {
	RunID             string       `json:"run_id,omitempty"`
	Base              string       `json:"base"`
	URLTemplate       string       `json:"url_template"`
	Range             Range        `json:"range"`
	Pages             []PageResult `json:"pages"`
	Failed            []int        `json:"failed_pages,omitempty"`
	TotalUniqueTitles int          `json:"total_unique_titles"`
	TotalSumCounts    int          `json:"total_sum_counts"`
	Note              string       `json:"note"`
}

// Crawler fetches index pages one at a time.
type Crawler struct {
	opts    Options
	client  *http.Client
	logger  *slog.Logger
	limiter *rate.Limiter
	rng     *rand.Rand
	sleep   func(ctx context.Context, d time.Duration) error
}

// New creates a crawler, filling unset options with defaults.
func New(opts Options) *Crawler {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if opts.DelayMax < opts.DelayMin {
		opts.DelayMax = opts.DelayMin
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	limit := rate.Inf
	if opts.DelayMin > 0 {
		limit = rate.Every(opts.DelayMin)
	}
	return &Crawler{
		opts:    opts,
		client:  client,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
		rng:     rand.New(rand.NewSource(seed)),
		sleep:   sleepCtx,
	}
}

// PageURL returns the URL of page.
func (c *Crawler) PageURL(page int) string {
	return c.opts.BaseURL + fmt.Sprintf(PageTemplate, page)
}

// Run crawls Start..End. Titles are deduplicated across pages in first-seen
// order. A page that fails after all retries is recorded in the report and
// skipped; only context cancellation aborts the crawl.
func (c *Crawler) Run(ctx context.Context) ([]string, *Report, error) {
	rep := &Report{
		RunID:       c.opts.RunID,
		Base:        c.opts.BaseURL,
		URLTemplate: c.opts.BaseURL + strings.Replace(PageTemplate, "%d", "{page}", 1),
		Range:       Range{Start: c.opts.Start, End: c.opts.End},
		Pages:       []PageResult{},
		Note:        "total_unique_titles is deduped across pages",
	}

	seen := make(map[string]struct{})
	var titles []string
	for page := c.opts.Start; page <= c.opts.End; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return titles, rep, err
		}

		got, err := c.fetchPage(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return titles, rep, ctx.Err()
			}
			c.logger.Error("page failed", "page", page, "url", c.PageURL(page), "error", err)
			rep.Failed = append(rep.Failed, page)
		} else {
			rep.Pages = append(rep.Pages, PageResult{Page: page, Count: len(got)})
			rep.TotalSumCounts += len(got)
			for _, t := range got {
				if _, ok := seen[t]; ok {
					continue
				}
				seen[t] = struct{}{}
				titles = append(titles, t)
			}
			c.logger.Debug("page crawled", "page", page, "titles", len(got), "unique", len(titles))
		}

		if page < c.opts.End {
			if err := c.sleep(ctx, c.jitter(c.opts.DelayMax-c.opts.DelayMin)); err != nil {
				return titles, rep, err
			}
		}
	}
	rep.TotalUniqueTitles = len(titles)
	return titles, rep, nil
}

func (c *Crawler) fetchPage(ctx context.Context, page int) ([]string, error) {
	url := c.PageURL(page)
	var lastErr error
	for attempt := 1; attempt <= c.opts.Retries; attempt++ {
		titles, err := c.fetchOnce(ctx, url)
		if err == nil {
			return titles, nil
		}
		lastErr = err
		c.logger.Warn("page attempt failed", "page", page, "attempt", attempt, "error", err)
		if attempt < c.opts.Retries {
			if err := c.sleep(ctx, Backoff(attempt)+c.jitter(backoffJitter)); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("page %d after %d attempts: %w", page, c.opts.Retries, lastErr)
}

func (c *Crawler) fetchOnce(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.6")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return ParseTitles(resp.Body)
}

// Backoff is the retry delay after the given failed attempt, before jitter.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := baseBackoff
	for i := 1; i < attempt && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}

func (c *Crawler) jitter(span time.Duration) time.Duration {
	if span <= 0 {
		return 0
	}
	return time.Duration(c.rng.Int63n(int64(span)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ParseTitles extracts entry titles from <h3><a href="/cidian/ci-…">TITLE</a></h3>
// markup, skipping the "details" links. Titles are deduplicated in page order.
func ParseTitles(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	seen := make(map[string]struct{})
	var titles []string
	var walk func(n *html.Node, inH3 bool)
	walk = func(n *html.Node, inH3 bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H3:
				inH3 = true
			case atom.A:
				if inH3 && entryHref.MatchString(attr(n, "href")) {
					t := strings.TrimSpace(text(n))
					if t != "" && t != detailLinkText {
						if _, ok := seen[t]; !ok {
							seen[t] = struct{}{}
							titles = append(titles, t)
						}
					}
					return
				}
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch, inH3)
		}
	}
	walk(doc, false)
	return titles, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}
