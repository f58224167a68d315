package lineio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// scannerBufSize bounds a single line; raw dictionaries carry long lines.
const scannerBufSize = 4 * 1024 * 1024

// Each streams the trimmed, non-empty lines of r to fn. Invalid UTF-8 bytes
// are dropped. Iteration stops at the first error returned by fn.
func Each(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), scannerBufSize)
	for sc.Scan() {
		line := strings.TrimSpace(strings.ToValidUTF8(sc.Text(), ""))
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// EachFile is Each over the file at path.
func EachFile(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Each(f, fn); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// ReadLines loads the trimmed, non-empty lines of a file.
func ReadLines(path string) ([]string, error) {
	var lines []string
	err := EachFile(path, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// CountLines returns the raw number of lines in a file, blank ones included.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, 64*1024)
	n := 0
	last := byte('\n')
	for {
		c, err := f.Read(buf)
		if c > 0 {
			n += bytes.Count(buf[:c], []byte{'\n'})
			last = buf[c-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", path, err)
		}
	}
	if last != '\n' {
		n++
	}
	return n, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// WriteLines writes one line per element, each newline-terminated. An empty
// slice produces an empty file. The write is atomic.
func WriteLines(path string, lines []string) error {
	return WriteAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriterSize(w, 1024*1024)
		for _, l := range lines {
			if _, err := bw.WriteString(l); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomic creates the parent directory, streams content into a temporary
// file next to path and renames it into place once fully written.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
