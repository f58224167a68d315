package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

// Locator finds the raw files of a source below rawDir.
type Locator func(rawDir, name string) ([]string, error)

// Extractor turns a source's raw files into a word list.
type Extractor struct {
	Format Format
	Locate Locator
}

// Extractors maps well-known source names to their raw layout. Other
// sources are read as plain text from <raw>/<name>.txt or <raw>/<name>.
var Extractors = map[string]Extractor{
	"THUOCL":               {Format: FormatTSV, Locate: locateTHUOCL},
	"jieba":                {Format: FormatWS, Locate: locateJieba},
	"OpenCC":               {Format: FormatTokens, Locate: locateOpenCC},
	"zhwiki_titles_ns0_gz": {Format: FormatPlain, Locate: locateZhwiki},
}

// ExtractorFor returns the extractor for name, falling back to plain text.
func ExtractorFor(name string) Extractor {
	if ex, ok := Extractors[name]; ok {
		return ex
	}
	return Extractor{Format: FormatPlain, Locate: locatePlain}
}

// Extract reads every located file in order and returns the distinct words
// in first-seen order.
func (e Extractor) Extract(rawDir, name string) ([]string, error) {
	files, err := e.Locate(rawDir, name)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []string
	for _, fp := range files {
		err := lineio.EachFile(fp, func(line string) error {
			for _, w := range e.Format.Tokens(line) {
				if _, ok := seen[w]; ok {
					continue
				}
				seen[w] = struct{}{}
				out = append(out, w)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func locatePlain(rawDir, name string) ([]string, error) {
	return locateFirst(rawDir, name, name+".txt", name)
}

// locateZhwiki prefers the bare download name the url fetch writes.
func locateZhwiki(rawDir, name string) ([]string, error) {
	return locateFirst(rawDir, name, name, name+".txt")
}

func locateFirst(rawDir, name string, candidates ...string) ([]string, error) {
	for _, c := range candidates {
		if p := filepath.Join(rawDir, c); lineio.Exists(p) {
			return []string{p}, nil
		}
	}
	return nil, fmt.Errorf("%w: raw file for %s (%s.txt or %s)", internalerr.ErrNotFound, name, name, name)
}

func locateTHUOCL(rawDir, name string) ([]string, error) {
	base := filepath.Join(rawDir, name)
	files, err := filepath.Glob(filepath.Join(base, "data", "*.txt"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		if files, err = walkMatching(base, func(p string) bool { return strings.HasSuffix(p, ".txt") }); err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no THUOCL .txt files under %s", internalerr.ErrNotFound, base)
	}
	return files, nil
}

func locateJieba(rawDir, name string) ([]string, error) {
	base := filepath.Join(rawDir, name)
	for _, p := range []string{
		filepath.Join(base, "jieba", "dict.txt"),
		filepath.Join(base, "dict.txt"),
		filepath.Join(base, "jieba", "dict.txt.big"),
		filepath.Join(base, "dict.txt.big"),
	} {
		if lineio.Exists(p) {
			return []string{p}, nil
		}
	}
	hits, err := walkMatching(base, func(p string) bool {
		return strings.HasPrefix(filepath.Base(p), "dict.txt")
	})
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: jieba dict file (dict.txt*) under %s", internalerr.ErrNotFound, base)
	}
	return hits[:1], nil
}

func locateOpenCC(rawDir, name string) ([]string, error) {
	base := filepath.Join(rawDir, name)
	isTxt := func(p string) bool { return strings.HasSuffix(p, ".txt") }

	var files []string
	for _, d := range []string{
		filepath.Join(base, "data", "dictionary"),
		filepath.Join(base, "data", "dictionaries"),
	} {
		hits, err := walkMatching(d, isTxt)
		if err != nil {
			return nil, err
		}
		files = append(files, hits...)
	}
	if len(files) == 0 {
		var err error
		if files, err = walkMatching(base, isTxt); err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no OpenCC .txt files under %s", internalerr.ErrNotFound, base)
	}
	return files, nil
}

// walkMatching lists regular files below root in lexical order. A missing
// root yields no files.
func walkMatching(root string, keep func(path string) bool) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && keep(p) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}
