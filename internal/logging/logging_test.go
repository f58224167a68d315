package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestNewJSONCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "json", "01RUN")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("build complete", "union", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "build complete", rec["msg"])
	assert.Equal(t, "01RUN", rec["run"])
	assert.EqualValues(t, 3, rec["union"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "info", "xml", "")
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}
