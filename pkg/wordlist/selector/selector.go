// Package selector resolves include/exclude lists against the known sources.
package selector

import (
	"sort"
	"strings"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

// ParseList splits a comma-separated name list, trimming blanks.
func ParseList(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Resolve returns the active selection in the order of all.
//
// include, when non-empty, restricts the universe to those names; exclude
// then removes names from it. A name in both lists is excluded. Every name
// must be known: unknown include names are reported before unknown exclude
// names. Excluding a known name that include already dropped is a no-op.
func Resolve(all, include, exclude []string) ([]string, error) {
	known := make(map[string]struct{}, len(all))
	for _, n := range all {
		known[n] = struct{}{}
	}

	inc, err := toSet("include", include, known)
	if err != nil {
		return nil, err
	}
	exc, err := toSet("exclude", exclude, known)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, n := range all {
		if len(inc) > 0 {
			if _, ok := inc[n]; !ok {
				continue
			}
		}
		if _, ok := exc[n]; ok {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, internalerr.ErrEmptySelection
	}
	return out, nil
}

func toSet(flag string, names []string, known map[string]struct{}) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(names))
	var unknown []string
	for _, n := range names {
		if _, ok := known[n]; !ok {
			unknown = append(unknown, n)
			continue
		}
		set[n] = struct{}{}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &internalerr.UnknownSourceError{Flag: flag, Names: dedupSorted(unknown)}
	}
	return set, nil
}

func dedupSorted(s []string) []string {
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}
