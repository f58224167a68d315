package internalerr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMalformedRegistry = errors.New("malformed source registry")
	ErrMissingSourceFile = errors.New("missing source file")
	ErrUnknownSource     = errors.New("unknown source")
	ErrEmptySelection    = errors.New("no sources selected after include/exclude")
	ErrTooManySources    = errors.New("too many sources for exhaustive combination enumeration")
	ErrNeedTwoSources    = errors.New("need at least 2 sources")
)

// MalformedRegistryError reports a registry line that cannot be accepted.
// Line is 1-based; it is 0 when the problem concerns the file as a whole.
type MalformedRegistryError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedRegistryError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Reason, e.Text)
}

func (e *MalformedRegistryError) Is(target error) bool { return target == ErrMalformedRegistry }

// MissingSourceFileError reports an active source without its stage file.
type MissingSourceFileError struct {
	Name string
	Path string
}

func (e *MissingSourceFileError) Error() string {
	return fmt.Sprintf("missing stage file for source %q: %s", e.Name, e.Path)
}

func (e *MissingSourceFileError) Is(target error) bool { return target == ErrMissingSourceFile }

// UnknownSourceError lists names given to a selection flag that are not in
// the registry. Names are sorted.
type UnknownSourceError struct {
	Flag  string
	Names []string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown --%s source(s): [%s]", e.Flag, strings.Join(e.Names, ", "))
}

func (e *UnknownSourceError) Is(target error) bool { return target == ErrUnknownSource }
