// Package registry parses the flat source table that names every lexical
// source of the pipeline.
//
// Format, one source per line:
//
//	type  name  ref_or_url
//
// Blank lines and lines starting with '#' are ignored. The third column runs
// to the end of the line. Source order in the file is the order used by every
// downstream stage.
package registry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

// Type says how a source is obtained. Any value is accepted; only fetch acts
// on git and url.
type Type string

const (
	TypeGit Type = "git"
	TypeURL Type = "url"
	TypeGen Type = "gen"
)

// Source describes one lexical source.
type Source struct {
	Type Type
	Name string // set key and file stem in every stage directory
	Ref  string // repository or URL, provenance only
}

// Registry is the ordered, name-unique list of sources.
type Registry struct {
	sources []Source
	index   map[string]int
}

// Load reads and parses a registry file.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a registry from r. name is used in error messages.
func Parse(r io.Reader, name string) (*Registry, error) {
	reg := &Registry{index: make(map[string]int)}
	lines := make(map[string]int)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := splitColumns(line, 3)
		if len(parts) < 3 {
			return nil, &internalerr.MalformedRegistryError{
				Path: name, Line: lineNo, Text: raw, Reason: "expected 3 columns (type name ref)",
			}
		}

		src := Source{Type: Type(parts[0]), Name: parts[1], Ref: parts[2]}
		if prev, dup := lines[src.Name]; dup {
			return nil, &internalerr.MalformedRegistryError{
				Path: name, Line: lineNo, Text: raw, Reason: fmt.Sprintf("duplicate source name %q (first defined on line %d)", src.Name, prev),
			}
		}

		lines[src.Name] = lineNo
		reg.index[src.Name] = len(reg.sources)
		reg.sources = append(reg.sources, src)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sources file %s: %w", name, err)
	}
	if len(reg.sources) == 0 {
		return nil, &internalerr.MalformedRegistryError{Path: name, Reason: "no sources defined"}
	}
	return reg, nil
}

// splitColumns splits on runs of whitespace into at most n fields; the last
// field keeps the remainder of the line.
func splitColumns(s string, n int) []string {
	var out []string
	for len(out) < n-1 {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return out
		}
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return append(out, s)
		}
		out = append(out, s[:i])
		s = s[i:]
	}
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}

// Sources returns a copy of the descriptors in file order.
func (r *Registry) Sources() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Names returns source names in file order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.sources))
	for i, s := range r.sources {
		out[i] = s.Name
	}
	return out
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Source, bool) {
	i, ok := r.index[name]
	if !ok {
		return Source{}, false
	}
	return r.sources[i], true
}

// Has reports whether name is a registered source.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Index returns the file position of name, or -1.
func (r *Registry) Index(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of sources.
func (r *Registry) Len() int { return len(r.sources) }
