// Package wordset holds the per-source word sets of one invocation.
//
// Words are opaque strings. Every distinct word is interned once into a
// shared dictionary and each source keeps a 32-bit Roaring bitmap of the IDs
// it contains, so unions and intersection cardinalities never touch strings.
package wordset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/xianyudd/wordlist-pipeline/internal/lineio"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
)

// FileExt is the extension of every per-source stage file.
const FileExt = ".txt"

// FilePath returns the stage file for a source inside dir.
func FilePath(dir, name string) string {
	return filepath.Join(dir, name+FileExt)
}

// Dictionary interns words into dense uint32 IDs in first-seen order.
type Dictionary struct {
	words []string
	ids   map[string]uint32
}

func newDictionary() *Dictionary {
	return &Dictionary{ids: make(map[string]uint32)}
}

func (d *Dictionary) intern(w string) uint32 {
	if id, ok := d.ids[w]; ok {
		return id
	}
	id := uint32(len(d.words))
	d.words = append(d.words, w)
	d.ids[w] = id
	return id
}

// Word returns the string for id.
func (d *Dictionary) Word(id uint32) string { return d.words[id] }

// ID returns the id of w, if interned.
func (d *Dictionary) ID(w string) (uint32, bool) {
	id, ok := d.ids[w]
	return id, ok
}

// Len returns the number of distinct words across all sources.
func (d *Dictionary) Len() int { return len(d.words) }

// Sets maps source names to word sets. It is built once and read-only
// afterwards.
type Sets struct {
	names   []string
	index   map[string]int
	dict    *Dictionary
	bitmaps []*roaring.Bitmap
}

// New creates empty sets for the given source names, in that order.
func New(names ...string) *Sets {
	s := &Sets{
		names:   make([]string, 0, len(names)),
		index:   make(map[string]int, len(names)),
		dict:    newDictionary(),
		bitmaps: make([]*roaring.Bitmap, 0, len(names)),
	}
	for _, n := range names {
		if _, ok := s.index[n]; ok {
			continue
		}
		s.index[n] = len(s.names)
		s.names = append(s.names, n)
		s.bitmaps = append(s.bitmaps, roaring.New())
	}
	return s
}

// Add inserts words into the named source. Duplicates collapse. Adding to an
// unknown name panics; callers construct Sets with the full name list.
func (s *Sets) Add(name string, words ...string) {
	i, ok := s.index[name]
	if !ok {
		panic(fmt.Sprintf("wordset: unknown source %q", name))
	}
	bm := s.bitmaps[i]
	for _, w := range words {
		bm.Add(s.dict.intern(w))
	}
}

// Load reads <dir>/<name>.txt for every name. All files are checked before
// any is read, so a missing file never yields a partial result.
func Load(names []string, dir string) (*Sets, error) {
	for _, n := range names {
		p := FilePath(dir, n)
		if !lineio.Exists(p) {
			return nil, &internalerr.MissingSourceFileError{Name: n, Path: p}
		}
	}

	s := New(names...)
	for _, n := range names {
		bm := s.bitmaps[s.index[n]]
		err := lineio.EachFile(FilePath(dir, n), func(w string) error {
			bm.Add(s.dict.intern(w))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", n, err)
		}
		bm.RunOptimize()
	}
	return s, nil
}

// Names returns the loaded source names in load order.
func (s *Sets) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Has reports whether name was loaded.
func (s *Sets) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Dictionary exposes the shared word dictionary.
func (s *Sets) Dictionary() *Dictionary { return s.dict }

// Len returns the cardinality of a source's set; 0 for unknown names.
func (s *Sets) Len(name string) int {
	bm := s.bitmap(name)
	if bm == nil {
		return 0
	}
	return int(bm.GetCardinality())
}

// Contains reports whether word is in the named source.
func (s *Sets) Contains(name, word string) bool {
	bm := s.bitmap(name)
	if bm == nil {
		return false
	}
	id, ok := s.dict.ID(word)
	return ok && bm.Contains(id)
}

// Words returns the named source's words sorted lexicographically.
func (s *Sets) Words(name string) []string {
	bm := s.bitmap(name)
	if bm == nil {
		return nil
	}
	return s.Resolve(bm, true)
}

// Bitmap returns a copy of the named source's ID bitmap, or nil.
func (s *Sets) Bitmap(name string) *roaring.Bitmap {
	bm := s.bitmap(name)
	if bm == nil {
		return nil
	}
	return bm.Clone()
}

// Union returns a new bitmap holding the IDs of every named source. Unknown
// names contribute nothing.
func (s *Sets) Union(names []string) *roaring.Bitmap {
	bms := make([]*roaring.Bitmap, 0, len(names))
	for _, n := range names {
		if bm := s.bitmap(n); bm != nil {
			bms = append(bms, bm)
		}
	}
	if len(bms) == 0 {
		return roaring.New()
	}
	return roaring.FastOr(bms...)
}

// Universe returns the union of every loaded source.
func (s *Sets) Universe() *roaring.Bitmap { return s.Union(s.names) }

// IntersectionLen returns |a ∩ b|.
func (s *Sets) IntersectionLen(a, b string) int {
	ba, bb := s.bitmap(a), s.bitmap(b)
	if ba == nil || bb == nil {
		return 0
	}
	return int(ba.AndCardinality(bb))
}

// Masks returns, for every word ID in the union of names, a bitmask whose bit
// i is set when the word belongs to names[i]. IDs outside the union map to 0.
// At most 32 names are supported.
func (s *Sets) Masks(names []string) ([]uint32, error) {
	if len(names) > 32 {
		return nil, fmt.Errorf("%w: %d sources exceed 32-bit masks", internalerr.ErrTooManySources, len(names))
	}
	masks := make([]uint32, s.dict.Len())
	for i, n := range names {
		bm := s.bitmap(n)
		if bm == nil {
			continue
		}
		bit := uint32(1) << uint(i)
		it := bm.Iterator()
		for it.HasNext() {
			masks[it.Next()] |= bit
		}
	}
	return masks, nil
}

// Resolve turns an ID bitmap into words, optionally sorted.
func (s *Sets) Resolve(bm *roaring.Bitmap, sorted bool) []string {
	out := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, s.dict.Word(it.Next()))
	}
	if sorted {
		sort.Strings(out)
	}
	return out
}

func (s *Sets) bitmap(name string) *roaring.Bitmap {
	i, ok := s.index[name]
	if !ok {
		return nil
	}
	return s.bitmaps[i]
}

// FileStatus describes one source's stage file without loading it.
type FileStatus struct {
	Name   string
	Path   string
	Exists bool
	Lines  int // -1 when not counted
}

// Status reports existence (and, when count is set, raw line counts) of the
// stage files of names. Missing files are reported, not treated as errors.
func Status(dir string, names []string, count bool) ([]FileStatus, error) {
	out := make([]FileStatus, 0, len(names))
	for _, n := range names {
		st := FileStatus{Name: n, Path: FilePath(dir, n), Lines: -1}
		st.Exists = lineio.Exists(st.Path)
		if st.Exists && count {
			c, err := lineio.CountLines(st.Path)
			if err != nil && !os.IsNotExist(err) {
				return nil, err
			}
			st.Lines = c
		}
		out = append(out, st)
	}
	return out, nil
}
