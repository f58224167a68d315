package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page1 = `<html><body>
<div class="list">
  <h3><a href="/cidian/ci-6c34e6">一字千金</a></h3>
  <h3><a href="/cidian/ci-ab12"> 三字经 </a></h3>
  <h3><a href="/cidian/ci-ab12">三字经</a></h3>
  <h3><a href="/cidian/ci-ff00">查看详情</a></h3>
  <h3><a href="/zidian/zi-1">不是词</a></h3>
  <p><a href="/cidian/ci-9999">不在标题里</a></p>
  <h3><span><a HREF="/cidian/CI-ABCD"><b>跑龙套</b></a></span></h3>
</div>
</body></html>`

func TestParseTitles(t *testing.T) {
	got, err := ParseTitles(strings.NewReader(page1))
	require.NoError(t, err)
	assert.Equal(t, []string{"一字千金", "三字经", "跑龙套"}, got)

	got, err = ParseTitles(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 300 * time.Millisecond},
		{1, 300 * time.Millisecond},
		{2, 600 * time.Millisecond},
		{3, 1200 * time.Millisecond},
		{4, 2 * time.Second},
		{10, 2 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func newTestCrawler(t *testing.T, srv *httptest.Server, start, end, retries int) *Crawler {
	t.Helper()
	c := New(Options{
		BaseURL:   srv.URL,
		Start:     start,
		End:       end,
		Retries:   retries,
		UserAgent: "wordlist-test",
		Client:    srv.Client(),
		RunID:     "01TESTRUN",
		Seed:      1,
	})
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c
}

func TestRunDeduplicatesAcrossPages(t *testing.T) {
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/cidian/changdu-3-p1":
			fmt.Fprint(w, page1)
		case "/cidian/changdu-3-p2":
			fmt.Fprint(w, `<h3><a href="/cidian/ci-1">三字经</a></h3><h3><a href="/cidian/ci-2">百家姓</a></h3>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestCrawler(t, srv, 1, 2, 1)
	titles, rep, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"一字千金", "三字经", "跑龙套", "百家姓"}, titles)
	assert.Equal(t, []PageResult{{Page: 1, Count: 3}, {Page: 2, Count: 2}}, rep.Pages)
	assert.Equal(t, 4, rep.TotalUniqueTitles)
	assert.Equal(t, 5, rep.TotalSumCounts)
	assert.Equal(t, "01TESTRUN", rep.RunID)
	assert.Equal(t, srv.URL+"/cidian/changdu-3-p{page}", rep.URLTemplate)
	assert.Equal(t, "wordlist-test", agent.Load())
}

func TestRunRetriesThenSkips(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		if r.URL.Path == "/cidian/changdu-3-p1" && n < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path == "/cidian/changdu-3-p2" {
			http.Error(w, "gone", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `<h3><a href="/cidian/ci-1">三字经</a></h3>`)
	}))
	defer srv.Close()

	c := newTestCrawler(t, srv, 1, 2, 3)
	titles, rep, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"三字经"}, titles)
	assert.Equal(t, []PageResult{{Page: 1, Count: 1}}, rep.Pages)
	assert.Equal(t, []int{2}, rep.Failed)
	assert.EqualValues(t, 6, hits.Load()) // page 1: 3 attempts, page 2: 3 attempts
}

func TestRunHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h3><a href="/cidian/ci-1">三字经</a></h3>`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestCrawler(t, srv, 1, 5, 1)
	_, _, err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
