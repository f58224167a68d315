package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianyudd/wordlist-pipeline/internal/fetch"
)

func TestAllStages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("一字千金\n 三 字 经 \nabc\n三字经\n百家姓\n"))
	}))
	defer srv.Close()

	root := t.TempDir()
	sources := filepath.Join(root, "sources.txt")
	require.NoError(t, os.WriteFile(sources, []byte("url words "+srv.URL+"/words.txt\ngen crawled local\n"), 0o644))

	raw := filepath.Join(root, "raw")
	require.NoError(t, os.MkdirAll(raw, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "crawled.txt"), []byte("跑龙套\n跑龙套\n"), 0o644))

	report := filepath.Join(root, "fetch.json")
	var stdout bytes.Buffer
	a := &app{stdout: &stdout, stderr: &bytes.Buffer{}}
	cmd := a.rootCmd()
	cmd.SetArgs([]string{
		"--sources-file", sources,
		"--raw-dir", raw,
		"--extracted-dir", filepath.Join(root, "s1"),
		"--normalized-dir", filepath.Join(root, "s2"),
		"--filtered-dir", filepath.Join(root, "s3"),
		"--log-level", "error",
		"all", "--report", report,
	})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(root, "s3", "words.txt"))
	require.NoError(t, err)
	assert.Equal(t, "三字经\n百家姓\n", string(data))

	data, err = os.ReadFile(filepath.Join(root, "s3", "crawled.txt"))
	require.NoError(t, err)
	assert.Equal(t, "跑龙套\n", string(data))

	data, err = os.ReadFile(report)
	require.NoError(t, err)
	var rep fetch.Report
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, a.runID, rep.RunID)
	require.Len(t, rep.Results, 2)
	assert.Equal(t, fetch.StatusFetched, rep.Results[0].Status)
	assert.Equal(t, fetch.StatusSkipped, rep.Results[1].Status)
}

func TestExtractStrict(t *testing.T) {
	root := t.TempDir()
	sources := filepath.Join(root, "sources.txt")
	require.NoError(t, os.WriteFile(sources, []byte("url absent https://example.invalid/absent.txt\n"), 0o644))

	run := func(strict bool) error {
		a := &app{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
		cmd := a.rootCmd()
		args := []string{"--sources-file", sources, "--raw-dir", filepath.Join(root, "raw"), "--extracted-dir", filepath.Join(root, "s1"), "--log-level", "error"}
		if strict {
			args = append(args, "--strict")
		}
		cmd.SetArgs(append(args, "extract"))
		return cmd.Execute()
	}

	assert.NoError(t, run(false))
	assert.Error(t, run(true))
}
