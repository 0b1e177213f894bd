// Package shortlog reads day-named shortlog files and parses their lines into highlights.
package shortlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// DefaultPattern names the file for a day, e.g. shortlog-2023-05-01.txt.
const DefaultPattern = "shortlog-%Y-%m-%d.txt"

// ErrNotFound is matched by the error returned when no shortlog file exists for a date.
var ErrNotFound = errors.New("shortlog file not found")

// NotFoundError reports a missing shortlog file.
type NotFoundError struct {
	Path string
	Date time.Time
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no shortlog file for %s at %s", e.Date.Format("2006-01-02"), e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Reader locates and reads the shortlog file for a day.
type Reader struct {
	pattern *strftime.Strftime
}

// NewReader returns a Reader naming files with the given strftime pattern.
// An empty pattern selects DefaultPattern.
func NewReader(pattern string) (*Reader, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	f, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	return &Reader{pattern: f}, nil
}

var defaultReader = func() *Reader {
	r, err := NewReader(DefaultPattern)
	if err != nil {
		panic(err)
	}
	return r
}()

// FileName returns the shortlog file name for date.
func (r *Reader) FileName(date time.Time) string {
	return r.pattern.FormatString(date)
}

// Path returns the full path of the shortlog file for date inside directory.
func (r *Reader) Path(directory string, date time.Time) string {
	return filepath.Join(directory, r.FileName(date))
}

// ReadLines returns the non-empty lines of the shortlog file for date, in file order.
func (r *Reader) ReadLines(directory string, date time.Time) ([]string, error) {
	path := r.Path(directory, date)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Date: date, Err: err}
		}
		return nil, fmt.Errorf("failed to read shortlog file: %w", err)
	}

	return SplitLines(string(data)), nil
}

// ReadLines reads the file for date using DefaultPattern.
func ReadLines(directory string, date time.Time) ([]string, error) {
	return defaultReader.ReadLines(directory, date)
}

// SplitLines splits text on line boundaries and drops empty lines.
// Lines are not trimmed.
func SplitLines(text string) []string {
	return strings.FieldsFunc(text, isLineBreak)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
