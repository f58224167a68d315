// Package picker chooses source subsets by preset or by 1-based index list.
package picker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/wordset"
)

// Preset names a canned selection.
type Preset string

const (
	PresetCore   Preset = "core"
	PresetAll    Preset = "all"
	PresetWiki   Preset = "wiki"
	PresetCustom Preset = "custom"
)

// Presets lists the presets in menu order.
var Presets = []Preset{PresetCore, PresetAll, PresetWiki, PresetCustom}

// ParsePreset accepts a preset name or its one-letter shortcut.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "core", "c":
		return PresetCore, nil
	case "all", "a":
		return PresetAll, nil
	case "wiki", "w":
		return PresetWiki, nil
	case "custom", "x":
		return PresetCustom, nil
	}
	return "", fmt.Errorf("%w: unknown preset %q", internalerr.ErrInvalidInput, s)
}

// Description is the menu label of a preset.
func (p Preset) Description() string {
	switch p {
	case PresetCore:
		return "non-wiki sources"
	case PresetAll:
		return "every source"
	case PresetWiki:
		return "wiki sources only"
	case PresetCustom:
		return "pick by indices"
	}
	return ""
}

// IsWiki reports whether a source name denotes a wiki-derived list.
func IsWiki(name string) bool {
	return strings.Contains(strings.ToLower(name), "wiki")
}

// Pick returns the names chosen by preset. Presets keep registry order;
// PresetCustom keeps the order of the indices in custom. custom is only read
// for PresetCustom and an empty custom list selects nothing.
func Pick(names []string, preset Preset, custom string) ([]string, error) {
	var out []string
	switch preset {
	case PresetCore:
		for _, n := range names {
			if !IsWiki(n) {
				out = append(out, n)
			}
		}
	case PresetAll:
		out = append(out, names...)
	case PresetWiki:
		for _, n := range names {
			if IsWiki(n) {
				out = append(out, n)
			}
		}
	case PresetCustom:
		idx, err := ParseIndices(custom, len(names))
		if err != nil {
			return nil, err
		}
		for _, i := range idx {
			out = append(out, names[i-1])
		}
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", internalerr.ErrInvalidInput, string(preset))
	}
	return out, nil
}

var indexSep = regexp.MustCompile(`[,\s]+`)

// ParseIndices parses "1,2,4", "1 2 4" or "1-3,5" into 1-based indices.
// Reversed ranges are normalized and repeats keep their first position.
// Every index must lie in 1..n.
func ParseIndices(s string, n int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var idx []int
	for _, tok := range indexSep.Split(s, -1) {
		if tok == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(tok, "-"); ok {
			a, errA := parseIndex(lo)
			b, errB := parseIndex(hi)
			if errA != nil || errB != nil {
				return nil, fmt.Errorf("%w: bad range token %q", internalerr.ErrInvalidInput, tok)
			}
			if a > b {
				a, b = b, a
			}
			if a < 1 {
				return nil, outOfRange(a, n)
			}
			if b > n {
				return nil, outOfRange(b, n)
			}
			for k := a; k <= b; k++ {
				idx = append(idx, k)
			}
			continue
		}
		v, err := parseIndex(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: bad index token %q", internalerr.ErrInvalidInput, tok)
		}
		idx = append(idx, v)
	}

	seen := make(map[int]struct{}, len(idx))
	out := idx[:0]
	for _, i := range idx {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	for _, i := range out {
		if i < 1 || i > n {
			return nil, outOfRange(i, n)
		}
	}
	return out, nil
}

func outOfRange(i, n int) error {
	return fmt.Errorf("%w: index out of range: %d (valid: 1..%d)", internalerr.ErrInvalidInput, i, n)
}

func parseIndex(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// FilterAvailable splits chosen into names whose stage file exists under dir
// and names that are missing or unknown.
func FilterAvailable(chosen, known []string, dir string) (ok, missing []string) {
	knownSet := make(map[string]struct{}, len(known))
	for _, n := range known {
		knownSet[n] = struct{}{}
	}
	for _, n := range chosen {
		if _, isKnown := knownSet[n]; !isKnown || !lineio.Exists(wordset.FilePath(dir, n)) {
			missing = append(missing, n)
			continue
		}
		ok = append(ok, n)
	}
	return ok, missing
}
