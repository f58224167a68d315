package ingest

import (
	"fmt"
	"strings"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

// Format describes how a raw dictionary line yields candidate words.
type Format string

const (
	// FormatTSV keeps the first tab-separated field ("word\tfreq").
	FormatTSV Format = "tsv"
	// FormatWS keeps the first whitespace-separated field ("word freq pos").
	FormatWS Format = "ws"
	// FormatTokens keeps every whitespace-separated token and skips '#'
	// comment lines ("trad simp1 simp2").
	FormatTokens Format = "tokens"
	// FormatPlain keeps the whole line.
	FormatPlain Format = "plain"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTSV, FormatWS, FormatTokens, FormatPlain:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown extract format %q", internalerr.ErrInvalidInput, s)
}

// Tokens splits one trimmed, non-empty line.
func (f Format) Tokens(line string) []string {
	switch f {
	case FormatTSV:
		w, _, _ := strings.Cut(line, "\t")
		if w = strings.TrimSpace(w); w != "" {
			return []string{w}
		}
		return nil
	case FormatWS:
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil
		}
		return fields[:1]
	case FormatTokens:
		if strings.HasPrefix(line, "#") {
			return nil
		}
		return strings.Fields(line)
	default:
		return []string{line}
	}
}
